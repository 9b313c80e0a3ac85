package tool

import (
	"context"
	"sync/atomic"

	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

// fakeRepo answers from fixed data and counts every query it receives.
type fakeRepo struct {
	queries atomic.Int64
	err     error

	albums    []musicdb.Album
	tracks    []musicdb.Track
	genre     []musicdb.Track
	invoices  []musicdb.Invoice
	lines     []musicdb.InvoiceLine
	employees []musicdb.Employee

	lastCustomerID atomic.Int64
}

func (f *fakeRepo) hit(customerID int) error {
	f.queries.Add(1)
	if customerID != 0 {
		f.lastCustomerID.Store(int64(customerID))
	}
	return f.err
}

func (f *fakeRepo) AlbumsByArtist(context.Context, string) ([]musicdb.Album, error) {
	return f.albums, f.hit(0)
}

func (f *fakeRepo) TracksByArtist(context.Context, string) ([]musicdb.Track, error) {
	return f.tracks, f.hit(0)
}

func (f *fakeRepo) SongsByGenre(context.Context, string) ([]musicdb.Track, error) {
	return f.genre, f.hit(0)
}

func (f *fakeRepo) TracksByTitle(context.Context, string) ([]musicdb.Track, error) {
	return f.tracks, f.hit(0)
}

func (f *fakeRepo) CustomerByID(context.Context, int) (*musicdb.Customer, error) {
	return nil, f.hit(0)
}

func (f *fakeRepo) CustomerByEmail(context.Context, string) (*musicdb.Customer, error) {
	return nil, f.hit(0)
}

func (f *fakeRepo) CustomerByPhone(context.Context, string) (*musicdb.Customer, error) {
	return nil, f.hit(0)
}

func (f *fakeRepo) CustomersWithPhone(context.Context) ([]musicdb.Customer, error) {
	return nil, f.hit(0)
}

func (f *fakeRepo) InvoicesByDate(_ context.Context, customerID int) ([]musicdb.Invoice, error) {
	return f.invoices, f.hit(customerID)
}

func (f *fakeRepo) InvoicesByUnitPrice(_ context.Context, customerID int) ([]musicdb.InvoiceLine, error) {
	return f.lines, f.hit(customerID)
}

func (f *fakeRepo) EmployeesForInvoice(_ context.Context, _ int, customerID int) ([]musicdb.Employee, error) {
	return f.employees, f.hit(customerID)
}
