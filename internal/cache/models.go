package cache

// Local mirror rows. Every table holds the last server response for its
// entity kind, nothing more; synchronization replaces rows wholesale.

type Profile struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Birth     string  `json:"birth"`
	Gender    string  `json:"gender"`
	BloodType string  `json:"blood_type"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Drinking  string  `json:"drinking"`
	Smoking   string  `json:"smoking"`
}

type Allergy struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null"   json:"name"`
}

type Disease struct {
	ID   int64  `gorm:"primaryKey"     json:"id"`
	Name string `gorm:"not null"       json:"name"`
	Kind string `gorm:"index;not null" json:"kind"` // chronic or acute
	Note string `json:"note"`
}

const (
	DiseaseChronic = "chronic"
	DiseaseAcute   = "acute"
)

type Drug struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	MedName        string `gorm:"not null"   json:"med_name"`
	DosageForm     string `json:"dosage_form"`
	Dose           string `json:"dose"`
	Unit           string `json:"unit"`
	Schedule       string `json:"schedule"` // comma-joined slots
	CustomSchedule string `json:"custom_schedule"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

type Schedule struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null"   json:"title"`
	Type     string `json:"type"`
	Date     string `gorm:"index"      json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Memo     string `json:"memo"`
}
