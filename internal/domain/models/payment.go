// internal/domain/models/payment.go
package models

// Payment is a rent payment for one billing period. MonthYear is "YYYY-MM".
type Payment struct {
	ID            RowID     `json:"id,omitempty"`
	PaymentID     string    `json:"payment_id"`
	StudentID     string    `json:"student_id"`
	BuildingCode  string    `json:"building_code"`
	AmountPaid    float64   `json:"amount_paid"`
	MonthYear     string    `json:"month_year"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     Timestamp `json:"created_at"`
}

var PaymentColumns = []string{"id", "payment_id", "student_id", "building_code", "amount_paid", "month_year", "payment_method", "created_at"}
