package patient

import "time"

// Patient columns are the single canonical shape; older revisions of the
// intake form used mixed casing (blood_pressure vs bloodPressure) and that
// normalization happens here, at the gateway boundary.
type Patient struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(128);not null" json:"name"`
	SpecialCare string  `gorm:"type:varchar(64)" json:"special_care"`
	Type        string  `gorm:"type:varchar(32)" json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	// demographics
	FirstName  string `gorm:"type:varchar(64)" json:"first_name,omitempty"`
	MiddleName string `gorm:"type:varchar(64)" json:"middle_name,omitempty"`
	LastName   string `gorm:"type:varchar(64)" json:"last_name,omitempty"`
	DOB        string `gorm:"type:varchar(10)" json:"dob,omitempty"`
	MRN        string `gorm:"type:varchar(32);index" json:"mrn,omitempty"`
	Insurance  string `gorm:"type:varchar(64)" json:"insurance,omitempty"`

	// vitals
	Weight          float64 `json:"weight,omitempty"`
	BloodPressure   string  `gorm:"type:varchar(16)" json:"blood_pressure,omitempty"`
	Pulse           int     `json:"pulse,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	RespirationRate int     `json:"respiration_rate,omitempty"`
	PulseOximetry   int     `json:"pulse_oximetry,omitempty"`

	FailureType string `gorm:"type:varchar(32)" json:"failure_type,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	CreatedByUserID string    `gorm:"type:varchar(36);index" json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Patient) TableName() string { return "patients" }
