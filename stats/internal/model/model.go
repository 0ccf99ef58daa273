package model

type EventCount struct {
	Type  string `json:"type" db:"type"`
	Count int    `json:"count" db:"count"`
}

type ReaderStats struct {
	ReaderID     int64 `json:"readerId" db:"reader_id"`
	Borrowed     int   `json:"borrowed" db:"borrowed"`
	Returned     int   `json:"returned" db:"returned"`
	Reservations int   `json:"reservations" db:"reservations"`
}

type Stats struct {
	Events  []EventCount  `json:"events"`
	Readers []ReaderStats `json:"readers"`
}
