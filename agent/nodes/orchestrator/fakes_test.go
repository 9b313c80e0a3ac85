package orchestratornode

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

type fakeCustomers struct {
	byID    map[int]musicdb.Customer
	err     error
	scanned int
}

func newFakeCustomers(cs ...musicdb.Customer) *fakeCustomers {
	f := &fakeCustomers{byID: make(map[int]musicdb.Customer, len(cs))}
	for _, c := range cs {
		f.byID[c.CustomerID] = c
	}
	return f
}

func (f *fakeCustomers) CustomerByID(_ context.Context, id int) (*musicdb.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCustomers) CustomerByEmail(_ context.Context, email string) (*musicdb.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.byID {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) CustomerByPhone(_ context.Context, phone string) (*musicdb.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.byID {
		if c.Phone == phone {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) CustomersWithPhone(context.Context) ([]musicdb.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.scanned++
	out := make([]musicdb.Customer, 0, len(f.byID))
	for _, c := range f.byID {
		if c.Phone != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeExtractor[T any] struct {
	mu     sync.Mutex
	out    T
	err    error
	inputs []string
}

func (f *fakeExtractor[T]) Extract(_ context.Context, input string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return f.out, nil
}

func (f *fakeExtractor[T]) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type fakeDecider struct {
	reply   string
	err     error
	calls   int
	history []*schema.Message
}

func (f *fakeDecider) Decide(_ context.Context, _ map[string]any, history []*schema.Message) (*schema.Message, error) {
	f.calls++
	f.history = history
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

type fakeSupervisor struct {
	req contractx.SubAgentRequest
	res contractx.SubAgentResult
	err error
}

func (f *fakeSupervisor) Run(_ context.Context, req contractx.SubAgentRequest) (contractx.SubAgentResult, error) {
	f.req = req
	if f.err != nil {
		return contractx.SubAgentResult{}, f.err
	}
	return f.res, nil
}
