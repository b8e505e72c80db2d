package models

type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleOperator UserRole = "Operator"
)

type User struct {
	ID     int64    `bson:"_id" json:"id"`
	Name   string   `bson:"name" json:"name" validate:"required"`
	Role   UserRole `bson:"role" json:"role" validate:"required,oneof=Admin Operator"`
	CityID int64    `bson:"city_id" json:"cityId"`
}
