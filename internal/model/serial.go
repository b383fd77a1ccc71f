package model

import (
	"encoding/json"
	"time"
)

type SerialReason string

const (
	ReasonDefect   SerialReason = "defect"
	ReasonUpgrade  SerialReason = "upgrade"
	ReasonTransfer SerialReason = "transfer"
	ReasonTheft    SerialReason = "theft"
	ReasonOther    SerialReason = "other"
)

var serialReasonLabels = map[SerialReason]string{
	ReasonDefect:   "Defeito",
	ReasonUpgrade:  "Upgrade",
	ReasonTransfer: "Transferência",
	ReasonTheft:    "Roubo/Furto",
	ReasonOther:    "Outro",
}

func (r SerialReason) Valid() bool {
	_, ok := serialReasonLabels[r]
	return ok
}

func (r SerialReason) Label() string {
	if label, ok := serialReasonLabels[r]; ok {
		return label
	}

	return serialReasonLabels[ReasonOther]
}

const MinSerialLength = 3

// SerialChange carries the optional reason metadata of a reassignment.
// Without it the serial is overwritten and no history row is written.
type SerialChange struct {
	Reason            SerialReason
	ReasonDescription string
	OldPhotos         []string
}

type SerialHistoryEntry struct {
	ID                int64           `json:"id"`
	CPF               string          `json:"cpf"`
	ClientName        string          `json:"client_name"`
	OldSerial         *string         `json:"old_serial"`
	NewSerial         string          `json:"new_serial"`
	Reason            SerialReason    `json:"reason"`
	ReasonLabel       string          `json:"reason_label"`
	ReasonDescription *string         `json:"reason_description"`
	OldPhotos         json.RawMessage `json:"old_photos"`
	ChangedBy         *int64          `json:"changed_by"`
	ChangedByName     string          `json:"changed_by_name"`
	CreatedAt         time.Time       `json:"created_at"`
	TimeAgo           string          `json:"time_ago"`
}

type SerialHistoryData struct {
	CPF   string               `json:"cpf"`
	Items []SerialHistoryEntry `json:"items"`
	Total int                  `json:"total"`
}

type LinkResult struct {
	CPF        string  `json:"cpf"`
	ClientName string  `json:"client_name"`
	OldSerial  *string `json:"old_serial"`
	NewSerial  string  `json:"new_serial"`
	LinkedBy   *int64  `json:"linked_by"`
}
