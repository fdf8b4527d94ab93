package sqlite

import (
	"fmt"

	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/tabular"
)

// recordRow is the database shape of one inventory record
type recordRow struct {
	ID               uint   `gorm:"primaryKey"`
	Position         int    `gorm:"not null;index"`
	Category         string `gorm:"not null;default:''"`
	Name             string `gorm:"not null;default:''"`
	ExpirationDate   string `gorm:"not null;default:''"`
	Manufacturer     string `gorm:"not null;default:''"`
	SKU              string `gorm:"column:sku;not null;default:''"`
	QuantityInStock  int64  `gorm:"not null;default:0"`
	ReorderThreshold *int64
	OrderQuantity    *int64
}

func (recordRow) TableName() string {
	return "inventory_records"
}

// Codec stores the inventory table in a SQLite database file
type Codec struct {
	defaults tabular.Defaults
}

// NewCodec creates a new SQLite codec applying the given column defaults
func NewCodec(defaults tabular.Defaults) *Codec {
	return &Codec{defaults: defaults}
}

// Verify interface compliance
var _ repositories.TableCodec = (*Codec)(nil)

// Format returns the format name
func (c *Codec) Format() string {
	return "sqlite"
}

// Read loads every record ordered by its saved position
func (c *Codec) Read(filename string) (*entities.Inventory, error) {
	db, closeDB, err := open(filename)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	if !db.Migrator().HasTable(&recordRow{}) {
		return entities.NewInventory(), nil
	}

	var rows []recordRow
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query inventory records: %w", err)
	}

	inv := entities.NewInventory()
	for i, row := range rows {
		if row.QuantityInStock < 0 {
			return nil, fmt.Errorf("row %d: %s cannot be negative: %d", i+1, entities.ColumnQuantityInStock, row.QuantityInStock)
		}
		expiration, _ := tabular.ParseDate(row.ExpirationDate)
		inv.Records = append(inv.Records, &entities.InventoryRecord{
			Category:         row.Category,
			Name:             row.Name,
			ExpirationDate:   expiration,
			Manufacturer:     row.Manufacturer,
			SKU:              row.SKU,
			QuantityInStock:  entities.Quantity(row.QuantityInStock),
			ReorderThreshold: orDefault(row.ReorderThreshold, c.defaults.ReorderThreshold),
			OrderQuantity:    orDefault(row.OrderQuantity, c.defaults.OrderQuantity),
		})
	}
	return inv, nil
}

// Write replaces every stored record with the given table in one transaction
func (c *Codec) Write(filename string, inv *entities.Inventory) error {
	db, closeDB, err := open(filename)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return fmt.Errorf("failed to migrate inventory table: %w", err)
	}

	rows := make([]recordRow, 0, inv.Len())
	for i, r := range inv.Records {
		threshold := int64(r.ReorderThreshold)
		orderQty := int64(r.OrderQuantity)
		rows = append(rows, recordRow{
			Position:         i,
			Category:         r.Category,
			Name:             r.Name,
			ExpirationDate:   r.ExpirationString(),
			Manufacturer:     r.Manufacturer,
			SKU:              r.SKU,
			QuantityInStock:  int64(r.QuantityInStock),
			ReorderThreshold: &threshold,
			OrderQuantity:    &orderQty,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&recordRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear inventory records: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("failed to insert inventory records: %w", err)
		}
		return nil
	})
}

func open(filename string) (*gorm.DB, func(), error) {
	db, err := gorm.Open(sqlitedriver.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open inventory database %s: %w", filename, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access inventory database %s: %w", filename, err)
	}
	return db, func() { sqlDB.Close() }, nil
}

func orDefault(v *int64, fallback entities.Quantity) entities.Quantity {
	if v == nil {
		return fallback
	}
	return entities.Quantity(*v)
}
