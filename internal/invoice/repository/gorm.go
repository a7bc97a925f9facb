package repository

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// savedInvoiceRow is the persisted form of a saved invoice. InvoiceKey holds
// the client-chosen id; ID is an internal snowflake.
type savedInvoiceRow struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	InvoiceKey string            `gorm:"type:text;not null;uniqueIndex"`
	TemplateID string            `gorm:"type:text;not null"`
	Data       datatypes.JSONMap `gorm:"not null"`
	SavedAt    time.Time         `gorm:"not null"`
	UpdatedAt  time.Time         `gorm:"not null"`
}

func (savedInvoiceRow) TableName() string { return "saved_invoices" }

func (r savedInvoiceRow) toDomain() invoicedomain.SavedInvoice {
	return invoicedomain.SavedInvoice{
		ID:         r.InvoiceKey,
		TemplateID: r.TemplateID,
		Data:       map[string]any(r.Data),
		SavedAt:    r.SavedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

// GormRepository stores saved invoices in Postgres or SQLite.
type GormRepository struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewGormRepository(db *gorm.DB, genID *snowflake.Node) *GormRepository {
	return &GormRepository{db: db, genID: genID}
}

// Migrate creates or updates the saved_invoices table.
func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&savedInvoiceRow{})
}

// Upsert inserts the invoice or, when the key already exists, replaces its
// template and data in the same statement. SavedAt is never overwritten.
func (r *GormRepository) Upsert(ctx context.Context, inv invoicedomain.SavedInvoice) (invoicedomain.SavedInvoice, error) {
	row := savedInvoiceRow{
		ID:         r.genID.Generate(),
		InvoiceKey: inv.ID,
		TemplateID: inv.TemplateID,
		Data:       datatypes.JSONMap(invoicedomain.CloneData(inv.Data)),
		SavedAt:    inv.SavedAt,
		UpdatedAt:  inv.UpdatedAt,
	}

	var saved savedInvoiceRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invoice_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"template_id", "data", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("invoice_key = ?", inv.ID).First(&saved).Error
	})
	if err != nil {
		return invoicedomain.SavedInvoice{}, err
	}
	return saved.toDomain(), nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*invoicedomain.SavedInvoice, error) {
	var row savedInvoiceRow
	err := r.db.WithContext(ctx).Where("invoice_key = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	inv := row.toDomain()
	return &inv, nil
}

func (r *GormRepository) List(ctx context.Context) ([]invoicedomain.SavedInvoice, error) {
	var rows []savedInvoiceRow
	if err := r.db.WithContext(ctx).Order("invoice_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]invoicedomain.SavedInvoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
