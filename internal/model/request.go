package model

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	City     *string `json:"city" validate:"omitempty,max=100"`
}

type ProfilePhotoRequest struct {
	Photo string `json:"photo" validate:"required"`
}

type CreateClientRequest struct {
	CPF           string   `json:"cpf" validate:"required"`
	Name          string   `json:"name" validate:"required,max=200"`
	Phone         *string  `json:"phone" validate:"omitempty,max=30"`
	BirthDate     *string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	CEP           *string  `json:"cep" validate:"omitempty,max=10"`
	City          *string  `json:"city" validate:"omitempty,max=100"`
	Address       *string  `json:"address" validate:"omitempty,max=255"`
	Number        *string  `json:"number" validate:"omitempty,max=20"`
	Complement    *string  `json:"complement" validate:"omitempty,max=100"`
	PlanID        *int64   `json:"plan_id" validate:"omitempty,gt=0"`
	PPPoE         *string  `json:"pppoe" validate:"omitempty,max=100"`
	PPPoEPassword *string  `json:"pppoe_password" validate:"omitempty,max=100"`
	DueDay        *int     `json:"due_day"`
	Observation   *string  `json:"observation"`
	Installer     *string  `json:"installer" validate:"omitempty,max=100"`
	Status        *string  `json:"status" validate:"omitempty,oneof=ativo inativo suspenso cancelado"`
	Active        *bool    `json:"active"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,longitude"`
	Accuracy      *float64 `json:"accuracy" validate:"omitempty,gte=0"`
}

type UpdateClientRequest struct {
	CPF           string  `json:"cpf" validate:"required"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	BirthDate     *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	CEP           *string `json:"cep" validate:"omitempty,max=10"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=255"`
	Number        *string `json:"number" validate:"omitempty,max=20"`
	Complement    *string `json:"complement" validate:"omitempty,max=100"`
	PlanID        *int64  `json:"plan_id" validate:"omitempty,gt=0"`
	PPPoE         *string `json:"pppoe" validate:"omitempty,max=100"`
	PPPoEPassword *string `json:"pppoe_password" validate:"omitempty,max=100"`
	DueDay        *int    `json:"due_day" validate:"omitempty,oneof=10 20 30"`
	Installer     *string `json:"installer" validate:"omitempty,max=100"`
	Observation   *string `json:"observation"`
	Status        *string `json:"status" validate:"omitempty,oneof=ativo inativo suspenso cancelado"`
	Active        *bool   `json:"active"`
	Serial        *string `json:"serial" validate:"omitempty,min=3,max=100"`
	Contract      *string `json:"contract" validate:"omitempty,max=50"`
}

type LinkEquipmentRequest struct {
	CPF               string   `json:"cpf" validate:"required"`
	Serial            string   `json:"serial" validate:"required"`
	Reason            *string  `json:"reason" validate:"omitempty,oneof=defect upgrade transfer theft other"`
	ReasonDescription string   `json:"reason_description" validate:"max=500"`
	OldPhotos         []string `json:"old_photos"`
}

type AuditPostRequest struct {
	ActionType        string `json:"action_type" validate:"required,max=50"`
	ActionDescription string `json:"action_description" validate:"required"`
	EntityType        string `json:"entity_type" validate:"max=50"`
	EntityID          string `json:"entity_id" validate:"max=100"`
	EntityName        string `json:"entity_name" validate:"max=255"`
	Details           any    `json:"details"`
}

type PhotoUploadRequest struct {
	CPF   string `json:"cpf" validate:"required"`
	Photo string `json:"photo" validate:"required"`
	Type  string `json:"type"`
}

type CarrierStatusRequest struct {
	Action   string  `json:"action" validate:"required,oneof=buscar_cliente verificar_acesso salvar_contrato"`
	CPF      string  `json:"cpf"`
	Contract *string `json:"contrato"`
	MAC      *string `json:"mac"`
}
