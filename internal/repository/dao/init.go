package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Order{},
		&Ticket{},
		&TicketCounter{},
	); err != nil {
		return err
	}

	return seedTicketCounter(db)
}
