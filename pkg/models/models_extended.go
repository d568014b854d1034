package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is an ordered list of strings stored as a JSON array
type StringList []string

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported StringList source %T", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDBDataType picks a JSON column type per dialect
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	case "mysql":
		return "json"
	}
	return "text"
}

// ServicePackage is a reusable template of labor and parts
type ServicePackage struct {
	Record
	Name           string     `gorm:"not null;column:name" json:"name"`
	Description    *string    `gorm:"type:text;column:description" json:"description"`
	Category       *string    `gorm:"column:category" json:"category"`
	LaborCharge    float64    `gorm:"default:0;column:labor_charge" json:"labor_charge"`
	FixedPrice     *float64   `gorm:"column:fixed_price" json:"fixed_price"`
	GSTApplicable  bool       `gorm:"column:gst_applicable" json:"gst_applicable"`
	EstimatedTime  *string    `gorm:"column:estimated_time" json:"estimated_time"`
	ChecklistItems StringList `gorm:"column:checklist_items" json:"checklist_items"`

	// Relationships
	Items []ServicePackageItem `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for ServicePackage model
func (ServicePackage) TableName() string {
	return "service_packages"
}

// ServicePackageItem is one templated part line of a package
type ServicePackageItem struct {
	Record
	PackageID       string  `gorm:"type:varchar(36);not null;index;column:package_id" json:"package_id"`
	InventoryItemID *string `gorm:"type:varchar(36);index;column:inventory_item_id" json:"inventory_item_id"`
	ItemName        string  `gorm:"not null;column:item_name" json:"item_name"`
	Quantity        int     `gorm:"not null;default:1;column:quantity" json:"quantity"`
	UnitPrice       float64 `gorm:"default:0;column:unit_price" json:"unit_price"`

	// Relationships
	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnDelete:RESTRICT" json:"inventory_item,omitempty"`
}

// TableName specifies the table name for ServicePackageItem model
func (ServicePackageItem) TableName() string {
	return "service_package_items"
}

// CommunicationTemplate holds message text with {token} placeholders
type CommunicationTemplate struct {
	Record
	Name      string           `gorm:"not null;column:name" json:"name"`
	Content   string           `gorm:"type:text;not null;column:content" json:"content"`
	Category  TemplateCategory `gorm:"type:varchar(32);default:'custom';column:category" json:"category"`
	IsBuiltIn bool             `gorm:"default:false;column:is_built_in" json:"is_built_in"`
}

// TableName specifies the table name for CommunicationTemplate model
func (CommunicationTemplate) TableName() string {
	return "communication_templates"
}

// CommunicationLog is an append-only record of a message handed to a channel
type CommunicationLog struct {
	Record
	CustomerID     string         `gorm:"type:varchar(36);not null;index;column:customer_id" json:"customer_id"`
	JobID          *string        `gorm:"type:varchar(36);index;column:job_id" json:"job_id"`
	TemplateName   *string        `gorm:"column:template_name" json:"template_name"`
	MessageContent string         `gorm:"type:text;not null;column:message_content" json:"message_content"`
	SentVia        MessageChannel `gorm:"type:varchar(16);not null;column:sent_via" json:"sent_via"`
	Status         string         `gorm:"type:varchar(16);default:'sent';column:status" json:"status"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Job      *Job      `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for CommunicationLog model
func (CommunicationLog) TableName() string {
	return "communication_logs"
}

// GarageSettings is the per-operator garage profile
type GarageSettings struct {
	Record
	Name    string  `gorm:"not null;column:name" json:"name"`
	Address string  `gorm:"type:text;not null;column:address" json:"address"`
	Phone   string  `gorm:"not null;column:phone" json:"phone"`
	Email   string  `gorm:"not null;column:email" json:"email"`
	GSTIN   *string `gorm:"column:gstin" json:"gstin"`
	Website *string `gorm:"column:website" json:"website"`
}

// TableName specifies the table name for GarageSettings model
func (GarageSettings) TableName() string {
	return "garage_settings"
}

// DeviceToken is a push target registered by an operator's device
type DeviceToken struct {
	Record
	Token    string `gorm:"type:varchar(255);uniqueIndex;not null;column:token" json:"token"`
	Platform string `gorm:"type:varchar(16);not null;column:platform" json:"platform"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

// TableName specifies the table name for DeviceToken model
func (DeviceToken) TableName() string {
	return "device_tokens"
}
