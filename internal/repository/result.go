package repository

import "storeadmin/internal/images"

type EntityImages struct {
	ID          int      `json:"id"`
	Name        string   `json:"name,omitempty"`
	Images      []string `json:"images"`
	Unavailable []string `json:"unavailable,omitempty"`
	// what a listing shows for the entity right now
	Display string `json:"display"`
}

type Section struct {
	Pages    int                `json:"pages"`
	Entities []EntityImages     `json:"entities"`
	Sweep    images.SweepResult `json:"sweep"`
}

// AuditReport is the output of one image audit run.
type AuditReport struct {
	FetchedAt   string   `json:"fetched_at"`
	BackendURL  string   `json:"backend_url"`
	StorageURL  string   `json:"storage_url"`
	Categories  *Section `json:"categories,omitempty"`
	Items       *Section `json:"items,omitempty"`
	Unavailable int      `json:"unavailable"`
}

// Session is the durable form of the token slot.
type Session struct {
	Token   string `json:"token"`
	SavedAt string `json:"saved_at"`
}
