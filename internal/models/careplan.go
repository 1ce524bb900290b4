package models

import "time"

// Care-plan store (SQL Server, optional). Schema follows the upstream
// CarePlan table; the engine only does plain CRUD here, no resolution or
// propagation.
type CarePlan struct {
	ID                    uint       `gorm:"primaryKey;autoIncrement"`
	ActualReleaseDate     *time.Time `gorm:"type:date"`
	NameOfYouth           string     `gorm:"type:varchar(255)"`
	RaceEthnicity         string     `gorm:"type:varchar(100)"`
	MediCalID             string     `gorm:"column:medi_cal_id;type:varchar(50)"`
	ResidentialAddress    string     `gorm:"type:text"`
	Telephone             string     `gorm:"type:varchar(20)"`
	MediCalHealthPlan     string     `gorm:"column:medi_cal_health_plan;type:varchar(100)"`
	HealthScreenings      string     `gorm:"type:text"`
	HealthAssessments     string     `gorm:"type:text"`
	ChronicConditions     string     `gorm:"type:text"`
	PrescribedMedications string     `gorm:"type:text"`
	Notes                 string     `gorm:"type:text"`
	CarePlanNotes         string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CarePlan) TableName() string { return "care_plans" }
