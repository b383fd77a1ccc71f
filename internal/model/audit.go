package model

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	ActionLogin               = "login"
	ActionProfileUpdated      = "profile_updated"
	ActionProfilePhotoUpdated = "profile_photo_updated"
	ActionClientCreated       = "client_created"
	ActionClientUpdated       = "client_updated"
	ActionClientDeleted       = "client_deleted"
	ActionEquipmentLinked     = "equipment_linked"
	ActionPhotoUploaded       = "photo_uploaded"
	ActionPhotoDeleted        = "photo_deleted"
	ActionContractSaved       = "contract_saved"

	SystemActor = "system"
)

// AuditEvent is the write-side shape of an audit row.
type AuditEvent struct {
	UserID      *int64
	Username    string
	ActionType  string
	Description string
	EntityType  string
	EntityID    string
	EntityName  string
	Details     any
	IPAddress   string
	UserAgent   string
}

// AuditRecord is the read-side shape returned by the audit query.
type AuditRecord struct {
	ID                int64           `json:"id"`
	UserID            *int64          `json:"user_id"`
	Username          string          `json:"username"`
	UserFullName      string          `json:"user_full_name"`
	ActionType        string          `json:"action_type"`
	ActionDescription string          `json:"action_description"`
	EntityType        *string         `json:"entity_type"`
	EntityID          *string         `json:"entity_id"`
	EntityName        *string         `json:"entity_name"`
	Details           json.RawMessage `json:"details"`
	IPAddress         *string         `json:"ip_address"`
	UserAgent         *string         `json:"user_agent"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedAtRelative string          `json:"created_at_relative"`
}

type AuditFilter struct {
	ActionType string
	Username   string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

type AuditListData struct {
	Items []AuditRecord `json:"items"`
}

// ActorEvent starts an audit event attributed to actor.
func ActorEvent(actor Actor, action string, description string) AuditEvent {
	username := actor.Username
	if actor.Anonymous() && username == "" {
		username = SystemActor
	}

	return AuditEvent{
		UserID:      actor.UserID,
		Username:    username,
		ActionType:  action,
		Description: description,
		IPAddress:   actor.IP,
		UserAgent:   actor.UserAgent,
	}
}

// AuditDisplayName resolves the name shown for an audit row: "system" for
// rows without a user, else the user's current full name, else the
// username stored with the row.
func AuditDisplayName(userID *int64, fullName *string, username string) string {
	if userID == nil {
		return SystemActor
	}
	if fullName != nil && strings.TrimSpace(*fullName) != "" {
		return *fullName
	}
	if username != "" {
		return username
	}
	return SystemActor
}
