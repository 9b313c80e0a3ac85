package musicdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// genreSampleSize caps songs-by-genre to one song per artist for this many artists.
const genreSampleSize = 8

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
	MaxRows int           `envconfig:"MAX_ROWS" split_words:"true" default:"50"`
}

// Repository is the read-only view over the Chinook catalog and billing
// tables used by the tools. Single-row lookups return nil when nothing
// matches; outages wrap contract.ErrStoreUnavailable.
type Repository interface {
	AlbumsByArtist(ctx context.Context, artist string) ([]Album, error)
	TracksByArtist(ctx context.Context, artist string) ([]Track, error)
	SongsByGenre(ctx context.Context, genre string) ([]Track, error)
	TracksByTitle(ctx context.Context, title string) ([]Track, error)

	CustomerByID(ctx context.Context, id int) (*Customer, error)
	CustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CustomerByPhone(ctx context.Context, phone string) (*Customer, error)
	CustomersWithPhone(ctx context.Context) ([]Customer, error)

	InvoicesByDate(ctx context.Context, customerID int) ([]Invoice, error)
	InvoicesByUnitPrice(ctx context.Context, customerID int) ([]InvoiceLine, error)
	EmployeesForInvoice(ctx context.Context, invoiceID, customerID int) ([]Employee, error)
}

type BunRepository struct {
	db      *bun.DB
	maxRows int
}

// Open connects to Postgres through pgdriver and verifies the connection.
func Open(ctx context.Context, cfg Config) (*BunRepository, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("music db dsn is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("ping", err)
	}
	return NewBunRepository(db, cfg.MaxRows), nil
}

func NewBunRepository(db *bun.DB, maxRows int) *BunRepository {
	if maxRows <= 0 {
		maxRows = 50
	}
	return &BunRepository{db: db, maxRows: maxRows}
}

func (r *BunRepository) Close() error {
	return r.db.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", contractx.ErrStoreUnavailable, op, err)
}

func contains(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}

func scanAll[T any](ctx context.Context, q *bun.SelectQuery, op string) ([]T, error) {
	rows := make([]T, 0)
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, unavailable(op, err)
	}
	return rows, nil
}

func (r *BunRepository) albumsByArtistQuery(artist string) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("album AS al").
		ColumnExpr("al.album_id, al.title, ar.name AS artist_name").
		Join("JOIN artist AS ar ON ar.artist_id = al.artist_id").
		Where("ar.name ILIKE ?", contains(artist)).
		OrderExpr("ar.name, al.title").
		Limit(r.maxRows)
}

func (r *BunRepository) AlbumsByArtist(ctx context.Context, artist string) ([]Album, error) {
	return scanAll[Album](ctx, r.albumsByArtistQuery(artist), "albums by artist")
}

func (r *BunRepository) tracksByArtistQuery(artist string) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("track AS t").
		ColumnExpr("t.track_id, t.name AS song_name, ar.name AS artist_name, al.title AS album_title").
		Join("JOIN album AS al ON al.album_id = t.album_id").
		Join("JOIN artist AS ar ON ar.artist_id = al.artist_id").
		Where("ar.name ILIKE ?", contains(artist)).
		OrderExpr("ar.name, al.title, t.track_id").
		Limit(r.maxRows)
}

func (r *BunRepository) TracksByArtist(ctx context.Context, artist string) ([]Track, error) {
	return scanAll[Track](ctx, r.tracksByArtistQuery(artist), "tracks by artist")
}

// songsByGenreQuery picks one song per artist for genres matching genre.
func (r *BunRepository) songsByGenreQuery(genre string) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("track AS t").
		ColumnExpr("DISTINCT ON (ar.name) t.track_id, t.name AS song_name, ar.name AS artist_name").
		Join("JOIN genre AS g ON g.genre_id = t.genre_id").
		Join("LEFT JOIN album AS al ON al.album_id = t.album_id").
		Join("LEFT JOIN artist AS ar ON ar.artist_id = al.artist_id").
		Where("g.name ILIKE ?", contains(genre)).
		OrderExpr("ar.name, t.track_id").
		Limit(genreSampleSize)
}

func (r *BunRepository) SongsByGenre(ctx context.Context, genre string) ([]Track, error) {
	return scanAll[Track](ctx, r.songsByGenreQuery(genre), "songs by genre")
}

func (r *BunRepository) tracksByTitleQuery(title string) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("track AS t").
		ColumnExpr("t.track_id, t.name AS song_name, t.composer, t.unit_price, al.title AS album_title").
		Join("LEFT JOIN album AS al ON al.album_id = t.album_id").
		Where("t.name ILIKE ?", contains(title)).
		OrderExpr("t.name").
		Limit(r.maxRows)
}

func (r *BunRepository) TracksByTitle(ctx context.Context, title string) ([]Track, error) {
	return scanAll[Track](ctx, r.tracksByTitleQuery(title), "tracks by title")
}

func (r *BunRepository) customerQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("customer AS c").
		ColumnExpr("c.customer_id, c.first_name, c.last_name, c.email, c.phone").
		OrderExpr("c.customer_id")
}

func (r *BunRepository) customerWhere(ctx context.Context, op, where string, arg any) (*Customer, error) {
	var c Customer
	err := r.customerQuery().Where(where, arg).Limit(1).Scan(ctx, &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(op, err)
	}
	return &c, nil
}

func (r *BunRepository) CustomerByID(ctx context.Context, id int) (*Customer, error) {
	return r.customerWhere(ctx, "customer by id", "c.customer_id = ?", id)
}

func (r *BunRepository) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	return r.customerWhere(ctx, "customer by email", "c.email = ?", strings.TrimSpace(email))
}

func (r *BunRepository) CustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	return r.customerWhere(ctx, "customer by phone", "c.phone = ?", strings.TrimSpace(phone))
}

func (r *BunRepository) CustomersWithPhone(ctx context.Context) ([]Customer, error) {
	return scanAll[Customer](ctx, r.customerQuery().Where("c.phone IS NOT NULL"), "customers with phone")
}

func (r *BunRepository) invoicesByDateQuery(customerID int) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("invoice AS i").
		ColumnExpr("i.invoice_id, i.customer_id, i.invoice_date, i.billing_address, i.billing_city, i.billing_country, i.total").
		Where("i.customer_id = ?", customerID).
		OrderExpr("i.invoice_date DESC").
		Limit(r.maxRows)
}

func (r *BunRepository) InvoicesByDate(ctx context.Context, customerID int) ([]Invoice, error) {
	return scanAll[Invoice](ctx, r.invoicesByDateQuery(customerID), "invoices by date")
}

func (r *BunRepository) invoicesByUnitPriceQuery(customerID int) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("invoice AS i").
		ColumnExpr("i.invoice_id, i.customer_id, i.invoice_date, i.billing_address, i.billing_city, i.billing_country, i.total, il.unit_price").
		Join("JOIN invoice_line AS il ON il.invoice_id = i.invoice_id").
		Where("i.customer_id = ?", customerID).
		OrderExpr("il.unit_price DESC").
		Limit(r.maxRows)
}

func (r *BunRepository) InvoicesByUnitPrice(ctx context.Context, customerID int) ([]InvoiceLine, error) {
	return scanAll[InvoiceLine](ctx, r.invoicesByUnitPriceQuery(customerID), "invoices by unit price")
}

// employeesForInvoiceQuery resolves the support rep of customerID, only
// when invoiceID belongs to that customer.
func (r *BunRepository) employeesForInvoiceQuery(invoiceID, customerID int) *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("employee AS e").
		ColumnExpr("e.first_name, e.last_name, e.title, e.email").
		Join("JOIN customer AS c ON c.support_rep_id = e.employee_id").
		Join("JOIN invoice AS i ON i.customer_id = c.customer_id").
		Where("i.invoice_id = ?", invoiceID).
		Where("i.customer_id = ?", customerID)
}

func (r *BunRepository) EmployeesForInvoice(ctx context.Context, invoiceID, customerID int) ([]Employee, error) {
	return scanAll[Employee](ctx, r.employeesForInvoiceQuery(invoiceID, customerID), "employee for invoice")
}
