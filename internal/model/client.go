package model

import "time"

const (
	DefaultDueDay      = 10
	TaxIDLength        = 11
	AddressPlaceholder = "Não informado"
	AnonymousInstaller = "app"

	StatusActive    = "ativo"
	StatusInactive  = "inativo"
	StatusSuspended = "suspenso"
	StatusCanceled  = "cancelado"
)

var AllowedDueDays = []int{10, 20, 30}

var AllowedStatuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusCanceled}

type Client struct {
	CPF           string     `json:"cpf"`
	Name          string     `json:"name"`
	Phone         *string    `json:"phone"`
	BirthDate     *string    `json:"birth_date"`
	CEP           *string    `json:"cep"`
	City          *string    `json:"city"`
	Address       string     `json:"address"`
	Number        *string    `json:"number"`
	Complement    *string    `json:"complement"`
	PlanID        int64      `json:"plan_id"`
	PPPoE         string     `json:"pppoe"`
	PPPoEPassword string     `json:"pppoe_password"`
	DueDay        int        `json:"due_day"`
	Observation   *string    `json:"observation"`
	Installer     string     `json:"installer"`
	Status        string     `json:"status"`
	Active        bool       `json:"active"`
	Serial        *string    `json:"serial"`
	Contract      *string    `json:"contract"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Accuracy      *float64   `json:"accuracy"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// NewClient is the registration input after request decoding. Only CPF and
// Name are required; everything else falls back to registry defaults.
type NewClient struct {
	CPF           string
	Name          string
	Phone         *string
	BirthDate     *time.Time
	CEP           *string
	City          *string
	Address       *string
	Number        *string
	Complement    *string
	PlanID        *int64
	PPPoE         *string
	PPPoEPassword *string
	DueDay        *int
	Observation   *string
	Installer     *string
	Status        *string
	Active        *bool
	Latitude      *float64
	Longitude     *float64
	Accuracy      *float64
}

// ClientPatch lists every mutable client column. A nil field is left
// untouched; the CPF is deliberately absent.
type ClientPatch struct {
	Name          *string
	Phone         *string
	BirthDate     *time.Time
	CEP           *string
	City          *string
	Address       *string
	Number        *string
	Complement    *string
	PlanID        *int64
	PPPoE         *string
	PPPoEPassword *string
	DueDay        *int
	Installer     *string
	Observation   *string
	Status        *string
	Active        *bool
	Serial        *string
	Contract      *string
}

func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.BirthDate == nil && p.CEP == nil &&
		p.City == nil && p.Address == nil && p.Number == nil && p.Complement == nil &&
		p.PlanID == nil && p.PPPoE == nil && p.PPPoEPassword == nil && p.DueDay == nil &&
		p.Installer == nil && p.Observation == nil && p.Status == nil && p.Active == nil &&
		p.Serial == nil && p.Contract == nil
}

// Fields names the columns a patch touches, for audit details.
func (p ClientPatch) Fields() []string {
	fields := make([]string, 0, 18)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}

	add(p.Name != nil, "name")
	add(p.Phone != nil, "phone")
	add(p.BirthDate != nil, "birth_date")
	add(p.CEP != nil, "cep")
	add(p.City != nil, "city")
	add(p.Address != nil, "address")
	add(p.Number != nil, "number")
	add(p.Complement != nil, "complement")
	add(p.PlanID != nil, "plan_id")
	add(p.PPPoE != nil, "pppoe")
	add(p.PPPoEPassword != nil, "pppoe_password")
	add(p.DueDay != nil, "due_day")
	add(p.Installer != nil, "installer")
	add(p.Observation != nil, "observation")
	add(p.Status != nil, "status")
	add(p.Active != nil, "active")
	add(p.Serial != nil, "serial")
	add(p.Contract != nil, "contract")

	return fields
}

// Scope narrows client visibility. Empty fields mean no narrowing.
type Scope struct {
	City      string
	Installer string
}

func (s Scope) Unrestricted() bool {
	return s.City == "" && s.Installer == ""
}

type ClientQuery struct {
	Term  string
	Scope Scope
	Page  int
	Limit int
}

type ClientSummary struct {
	CPF       string    `json:"cpf"`
	Name      string    `json:"name"`
	City      *string   `json:"city"`
	PlanID    int64     `json:"plan_id"`
	Installer string    `json:"installer"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientListData struct {
	Items []Client `json:"items"`
}

type CreatedClient struct {
	CPF string `json:"cpf"`
}

func IsAllowedDueDay(day int) bool {
	for _, allowed := range AllowedDueDays {
		if day == allowed {
			return true
		}
	}

	return false
}

func IsAllowedStatus(status string) bool {
	for _, allowed := range AllowedStatuses {
		if status == allowed {
			return true
		}
	}

	return false
}
