package models

import "time"

type BankDetails struct {
	AccountName   string `bson:"account_name" json:"accountName"`
	AccountNumber string `bson:"account_number" json:"accountNumber"`
	BankName      string `bson:"bank_name" json:"bankName"`
	IFSCCode      string `bson:"ifsc_code" json:"ifscCode"`
}

// Customer rows are looked up by name or phone, neither of which is a key:
// two customers with the same name and different phones can coexist.
type Customer struct {
	ID           int64       `bson:"_id" json:"id"`
	Name         string      `bson:"name" json:"name" validate:"required"`
	Phone        string      `bson:"phone" json:"phone" validate:"required"`
	Address      string      `bson:"address" json:"address"`
	AadharNumber string      `bson:"aadhar_number" json:"aadharNumber"`
	PANNumber    string      `bson:"pan_number" json:"panNumber"`
	BankDetails  BankDetails `bson:"bank_details" json:"bankDetails"`
	CityID       int64       `bson:"city_id,omitempty" json:"cityId,omitempty"`
	CreatedAt    time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updatedAt"`
}
