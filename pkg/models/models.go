package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owned is implemented by every row that belongs to a single operator
type Owned interface {
	GetID() string
	SetOperator(operatorID string)
}

// Record carries the identity and owner columns shared by every garage table
type Record struct {
	ID         string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	OperatorID string    `gorm:"type:varchar(36);not null;index;column:operator_id" json:"operator_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when the caller did not
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Record) GetID() string { return r.ID }

func (r *Record) SetOperator(operatorID string) { r.OperatorID = operatorID }

// Operator is the authenticated garage account every other row is scoped to
type Operator struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null;column:email" json:"email"`
	Name               string     `gorm:"not null;column:name" json:"name"`
	Password           string     `gorm:"not null;column:password" json:"-"`
	TwoFactorEnabled   bool       `gorm:"default:false;column:two_factor_enabled" json:"two_factor_enabled"`
	TwoFactorSecret    *string    `gorm:"column:two_factor_secret" json:"-"`
	TwoFactorEnabledAt *time.Time `gorm:"column:two_factor_enabled_at" json:"two_factor_enabled_at"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Operator model
func (Operator) TableName() string {
	return "operators"
}

func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Customer model
type Customer struct {
	Record
	Name     string  `gorm:"type:varchar(100);not null;column:name" json:"name"`
	Phone    string  `gorm:"type:varchar(20);not null;index;column:phone" json:"phone"`
	WhatsApp *string `gorm:"type:varchar(20);column:whatsapp" json:"whatsapp"`
	Address  *string `gorm:"type:varchar(500);column:address" json:"address"`
	Notes    *string `gorm:"type:varchar(1000);column:notes" json:"notes"`

	// Relationships
	Bikes []Bike `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"bikes,omitempty"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}

// Bike model
type Bike struct {
	Record
	CustomerID         string  `gorm:"type:varchar(36);not null;index;column:customer_id" json:"customer_id"`
	RegistrationNumber string  `gorm:"type:varchar(50);not null;index;column:registration_number" json:"registration_number"`
	MakeModel          string  `gorm:"not null;column:make_model" json:"make_model"`
	Color              *string `gorm:"column:color" json:"color"`
	Year               *int    `gorm:"column:year" json:"year"`
	EngineNumber       *string `gorm:"column:engine_number" json:"engine_number"`
	ChassisNumber      *string `gorm:"column:chassis_number" json:"chassis_number"`
	LastMileage        *int    `gorm:"column:last_mileage" json:"last_mileage"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Jobs     []Job     `gorm:"foreignKey:BikeID;constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

// TableName specifies the table name for Bike model
func (Bike) TableName() string {
	return "bikes"
}

// Job is a single work order for one bike
type Job struct {
	Record
	BikeID             string         `gorm:"type:varchar(36);not null;index;column:bike_id" json:"bike_id"`
	ProblemDescription string         `gorm:"type:text;not null;column:problem_description" json:"problem_description"`
	DateIn             time.Time      `gorm:"not null;column:date_in" json:"date_in"`
	DateOut            *time.Time     `gorm:"column:date_out" json:"date_out"`
	Status             JobStatus      `gorm:"type:varchar(32);not null;default:'pending';index;column:status" json:"status"`
	PaymentStatus      PaymentStatus  `gorm:"type:varchar(16);not null;default:'pending';index;column:payment_status" json:"payment_status"`
	PaymentMethod      *PaymentMethod `gorm:"type:varchar(32);column:payment_method" json:"payment_method"`
	EstimatedCost      float64        `gorm:"default:0;column:estimated_cost" json:"estimated_cost"`
	LaborCost          float64        `gorm:"default:0;column:labor_cost" json:"labor_cost"`
	FinalTotal         float64        `gorm:"default:0;column:final_total" json:"final_total"`
	DiscountAmount     float64        `gorm:"default:0;column:discount_amount" json:"discount_amount"`
	GSTPercent         float64        `gorm:"default:0;column:gst_percent" json:"gst_percent"`
	GSTAmount          float64        `gorm:"default:0;column:gst_amount" json:"gst_amount"`
	PaidAmount         float64        `gorm:"default:0;column:paid_amount" json:"paid_amount"`
	PartsUsed          *string        `gorm:"type:text;column:parts_used" json:"parts_used"`
	MechanicNotes      *string        `gorm:"type:text;column:mechanic_notes" json:"mechanic_notes"`
	NextServiceDate    *time.Time     `gorm:"index;column:next_service_date" json:"next_service_date"`
	NextServiceMileage *int           `gorm:"column:next_service_mileage" json:"next_service_mileage"`
	InvoiceNumber      *string        `gorm:"type:varchar(32);uniqueIndex;column:invoice_number" json:"invoice_number"`
	IsInvoiceGenerated bool           `gorm:"default:false;column:is_invoice_generated" json:"is_invoice_generated"`
	AppliedPackageID   *string        `gorm:"type:varchar(36);column:applied_package_id" json:"applied_package_id"`
	AppliedPackageName *string        `gorm:"column:applied_package_name" json:"applied_package_name"`
	Version            int            `gorm:"not null;default:1;column:version" json:"version"`

	// Relationships
	Bike  *Bike     `gorm:"foreignKey:BikeID;references:ID" json:"bike,omitempty"`
	Parts []JobPart `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
}

// TableName specifies the table name for Job model
func (Job) TableName() string {
	return "jobs"
}

// JobPart is a structured line of parts consumed by a job
type JobPart struct {
	Record
	JobID           string  `gorm:"type:varchar(36);not null;index;column:job_id" json:"job_id"`
	InventoryItemID *string `gorm:"type:varchar(36);index;column:inventory_item_id" json:"inventory_item_id"`
	ItemName        string  `gorm:"not null;column:item_name" json:"item_name"`
	Quantity        int     `gorm:"not null;default:1;column:quantity" json:"quantity"`
	UnitPrice       float64 `gorm:"default:0;column:unit_price" json:"unit_price"`
	TotalPrice      float64 `gorm:"default:0;column:total_price" json:"total_price"`

	// Relationships
	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnDelete:RESTRICT" json:"inventory_item,omitempty"`
}

// TableName specifies the table name for JobPart model
func (JobPart) TableName() string {
	return "job_parts"
}

// InventoryItem is a stocked spare part
type InventoryItem struct {
	Record
	Name          string  `gorm:"not null;index;column:name" json:"name"`
	Code          *string `gorm:"type:varchar(64);column:code" json:"code"`
	Description   *string `gorm:"type:text;column:description" json:"description"`
	StockQuantity int     `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	MinStockLevel int     `gorm:"not null;default:0;column:min_stock_level" json:"min_stock_level"`
	CostPrice     float64 `gorm:"default:0;column:cost_price" json:"cost_price"`
	SellingPrice  float64 `gorm:"default:0;column:selling_price" json:"selling_price"`

	LowStock bool `gorm:"-" json:"low_stock"`
}

// TableName specifies the table name for InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the item has fallen below its reorder threshold
func (i InventoryItem) IsLowStock() bool {
	return i.StockQuantity < i.MinStockLevel
}

// AfterFind fills the derived low-stock flag
func (i *InventoryItem) AfterFind(tx *gorm.DB) error {
	i.LowStock = i.IsLowStock()
	return nil
}

// StockMovement records every change applied to an item's stock
type StockMovement struct {
	Record
	InventoryItemID string      `gorm:"type:varchar(36);not null;index;column:inventory_item_id" json:"inventory_item_id"`
	JobPartID       *string     `gorm:"type:varchar(36);column:job_part_id" json:"job_part_id"`
	Quantity        int         `gorm:"not null;column:quantity" json:"quantity"`
	Action          StockAction `gorm:"type:varchar(16);not null;column:action" json:"action"`
	Note            *string     `gorm:"column:note" json:"note"`

	// Relationships
	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
