package pipeline

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/roster-cli/pkg/viacep"
)

// --- ViaCEP Mock ---

type mockViaCEP struct {
	mock.Mock
	mu sync.Mutex
}

func (m *mockViaCEP) Lookup(ctx context.Context, cep string) (*viacep.Address, error) {
	m.mu.Lock()
	args := m.Called(ctx, cep)
	m.mu.Unlock()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*viacep.Address), args.Error(1)
}
