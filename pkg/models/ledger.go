package models

import (
	"gorm.io/gorm"
)

// BeforeCreate assigns the id and derives total_price
func (p *JobPart) BeforeCreate(tx *gorm.DB) error {
	if err := p.Record.BeforeCreate(tx); err != nil {
		return err
	}
	p.TotalPrice = float64(p.Quantity) * p.UnitPrice
	return nil
}

// AfterCreate takes the part's quantity out of the linked item's stock
func (p *JobPart) AfterCreate(tx *gorm.DB) error {
	return p.moveStock(tx, -p.Quantity, StockActionConsume)
}

// AfterDelete puts the part's quantity back. Only fires for deletes issued
// with a loaded JobPart; bulk and cascading deletes must restore stock first.
func (p *JobPart) AfterDelete(tx *gorm.DB) error {
	return p.moveStock(tx, p.Quantity, StockActionRestore)
}

func (p *JobPart) moveStock(tx *gorm.DB, delta int, action StockAction) error {
	if p.InventoryItemID == nil || *p.InventoryItemID == "" || delta == 0 {
		return nil
	}
	return ApplyStock(tx, p.OperatorID, *p.InventoryItemID, delta, action, &p.ID, nil)
}

// ApplyStock shifts an item's stock by delta and appends a StockMovement
func ApplyStock(tx *gorm.DB, operatorID, itemID string, delta int, action StockAction, jobPartID, note *string) error {
	res := tx.Model(&InventoryItem{}).
		Where("id = ? AND operator_id = ?", itemID, operatorID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	movement := StockMovement{
		InventoryItemID: itemID,
		JobPartID:       jobPartID,
		Quantity:        delta,
		Action:          action,
		Note:            note,
	}
	movement.OperatorID = operatorID
	return tx.Create(&movement).Error
}
