package llm

import (
	"testing"
)

func TestNewFromEnv_EmptyBackendMeansNoClient(t *testing.T) {
	client, err := NewFromEnv("")
	if err != nil {
		t.Fatalf("NewFromEnv(\"\") error = %v", err)
	}
	if client != nil {
		t.Errorf("NewFromEnv(\"\") = %v, want nil client", client)
	}
}

func TestNewFromEnv_UnknownBackend(t *testing.T) {
	if _, err := NewFromEnv("carrier-pigeon"); err == nil {
		t.Error("expected error for unknown backend type")
	}
}

func TestNewFromEnv_OllamaRequiresBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	if _, err := NewFromEnv("ollama"); err == nil {
		t.Error("expected error when OLLAMA_BASE_URL is unset")
	}
}

func TestNewOllamaClient_TrimsTrailingSlash(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434/")
	t.Setenv("OLLAMA_MODEL", "llama3")

	client, err := NewOllamaClient()
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	if client.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
	if got := client.Name(); got != "ollama/llama3" {
		t.Errorf("Name() = %q, want %q", got, "ollama/llama3")
	}
}
