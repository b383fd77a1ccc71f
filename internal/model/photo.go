package model

import "time"

type PhotoType string

const (
	PhotoRouter  PhotoType = "router"
	PhotoCabling PhotoType = "cabling"
	PhotoSignal  PhotoType = "signal"
	PhotoOther   PhotoType = "other"
)

func ParsePhotoType(raw string) PhotoType {
	switch PhotoType(raw) {
	case PhotoRouter, PhotoCabling, PhotoSignal:
		return PhotoType(raw)
	default:
		return PhotoOther
	}
}

type Photo struct {
	ID         int64     `json:"id"`
	CPF        string    `json:"cpf"`
	Filename   string    `json:"filename"`
	Type       PhotoType `json:"type"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy *int64    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url"`
	ThumbURL   string    `json:"thumbnail_url"`
}

type PhotoListData struct {
	Items []Photo `json:"items"`
}
