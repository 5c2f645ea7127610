package models

// Client is a record of the managed clients set.
// Optional fields are pointers so that absent and empty stay distinguishable on the wire.
type Client struct {
	ID          int64    `json:"id" db:"id"`
	Surname     string   `json:"surname" db:"surname"`
	Firstname   string   `json:"firstname" db:"firstname"`
	FathersName *string  `json:"fathers_name" db:"fathers_name"`
	BirthDate   *string  `json:"birth_date" db:"birth_date"` // YYYY-MM-DD
	PhoneNumber *string  `json:"phone_number" db:"phone_number"`
	Pasport     *string  `json:"pasport" db:"pasport"`
	Email       *string  `json:"email" db:"email"`
	Balance     *float64 `json:"balance" db:"balance"`
}

// ClientFilter narrows the client list. Nil fields are not applied.
type ClientFilter struct {
	MinBalance    *float64
	MaxBalance    *float64
	HasEmail      *bool
	SurnamePrefix *string
}
