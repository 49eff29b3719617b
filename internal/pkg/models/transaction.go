package models

import (
	"database/sql"
	"time"
)

// RawTransactionRow is one row of the operational-store join, scanned
// as raw text so the cleaner owns every parse decision.
type RawTransactionRow struct {
	TransactionID    sql.NullString `db:"transaction_id"`
	TruckID          sql.NullString `db:"truck_id"`
	PaymentMethodID  sql.NullString `db:"payment_method_id"`
	Total            sql.NullString `db:"total"`
	At               sql.NullString `db:"at"`
	TruckName        sql.NullString `db:"truck_name"`
	TruckDescription sql.NullString `db:"truck_description"`
	HasCardReader    sql.NullString `db:"has_card_reader"`
	FSARating        sql.NullString `db:"fsa_rating"`
	PaymentMethod    sql.NullString `db:"payment_method"`
}

// Transaction represents a cleaned point-of-sale record. Total is kept
// in minor units (pence); the read path converts to pounds.
type Transaction struct {
	TransactionID    int64
	At               time.Time
	TruckName        string
	PaymentMethod    string
	Total            float64
	TruckID          int64
	PaymentMethodID  int64
	FSARating        int64
	HasCardReader    bool
	TruckDescription string
}

// TruckDim represents one row of the truck dimension, rebuilt wholesale
// on every pipeline run.
type TruckDim struct {
	TruckID          int64
	TruckName        string
	TruckDescription string
	HasCardReader    bool
	FSARating        int64
}

// PaymentMethodDim represents one row of the payment-method dimension.
type PaymentMethodDim struct {
	PaymentMethodID int64
	PaymentMethod   string
}
