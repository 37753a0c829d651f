package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real. Es seguro para uso concurrente.
type MockClient struct {
	Response string
	Err      error
	Calls    int
	LastReq  VisionRequest

	mu sync.Mutex
}

func (m *MockClient) AnalyzeImage(ctx context.Context, req VisionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastReq = req
	return m.Response, m.Err
}
