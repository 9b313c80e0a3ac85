package musicdb

import "time"

type Album struct {
	AlbumID    int    `bun:"album_id" json:"album_id"`
	Title      string `bun:"title" json:"title"`
	ArtistName string `bun:"artist_name" json:"artist_name"`
}

type Track struct {
	TrackID    int     `bun:"track_id" json:"track_id,omitempty"`
	SongName   string  `bun:"song_name" json:"song_name"`
	ArtistName string  `bun:"artist_name" json:"artist_name,omitempty"`
	AlbumTitle string  `bun:"album_title" json:"album_title,omitempty"`
	Composer   string  `bun:"composer" json:"composer,omitempty"`
	UnitPrice  float64 `bun:"unit_price" json:"unit_price,omitempty"`
}

type Customer struct {
	CustomerID int    `bun:"customer_id" json:"customer_id"`
	FirstName  string `bun:"first_name" json:"first_name"`
	LastName   string `bun:"last_name" json:"last_name"`
	Email      string `bun:"email" json:"email"`
	Phone      string `bun:"phone" json:"phone"`
}

type Invoice struct {
	InvoiceID      int       `bun:"invoice_id" json:"invoice_id"`
	CustomerID     int       `bun:"customer_id" json:"customer_id"`
	InvoiceDate    time.Time `bun:"invoice_date" json:"invoice_date"`
	BillingAddress string    `bun:"billing_address" json:"billing_address,omitempty"`
	BillingCity    string    `bun:"billing_city" json:"billing_city,omitempty"`
	BillingCountry string    `bun:"billing_country" json:"billing_country,omitempty"`
	Total          float64   `bun:"total" json:"total"`
}

// InvoiceLine is an invoice row joined with one of its line items.
type InvoiceLine struct {
	Invoice
	UnitPrice float64 `bun:"unit_price" json:"unit_price"`
}

type Employee struct {
	FirstName string `bun:"first_name" json:"first_name"`
	LastName  string `bun:"last_name" json:"last_name"`
	Title     string `bun:"title" json:"title"`
	Email     string `bun:"email" json:"email"`
}
