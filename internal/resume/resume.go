// Package resume defines the structured resume document scored by atscore
// and the loaders that decode it from YAML or JSON.
package resume

import "strings"

// Resume is the structured resume produced by the editing form.
// Every field is optional; missing values decode to their zero value.
type Resume struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo" yaml:"personalInfo"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Education      []Education     `json:"education" yaml:"education"`
	Skills         []Skill         `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
}

// PersonalInfo holds contact details and the professional summary.
type PersonalInfo struct {
	FullName  string `json:"fullName" yaml:"fullName"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Location  string `json:"location" yaml:"location"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin"`
	Portfolio string `json:"portfolio" yaml:"portfolio"`
	Summary   string `json:"summary" yaml:"summary"`
}

// Experience is a single work history entry.
type Experience struct {
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Description string `json:"description" yaml:"description"`
	Current     bool   `json:"current" yaml:"current"`
}

// Education is a single degree or program entry.
type Education struct {
	Institution    string `json:"institution" yaml:"institution"`
	Degree         string `json:"degree" yaml:"degree"`
	Field          string `json:"field" yaml:"field"`
	GraduationDate string `json:"graduationDate" yaml:"graduationDate"`
	GPA            string `json:"gpa" yaml:"gpa"`
}

// Skill level values offered by the form.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// Levels lists the valid skill levels in ascending order.
var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

// Skill is a named skill with a self-assessed level.
type Skill struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
}

// Project is a portfolio project entry.
type Project struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Technologies string `json:"technologies" yaml:"technologies"`
	Link         string `json:"link" yaml:"link"`
}

// Certification is a certificate or training entry.
type Certification struct {
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Date   string `json:"date" yaml:"date"`
	Link   string `json:"link" yaml:"link"`
}

// DisplayName returns the candidate name, or fallback when the name is blank.
func (r *Resume) DisplayName(fallback string) string {
	if r == nil {
		return fallback
	}
	if name := strings.TrimSpace(r.PersonalInfo.FullName); name != "" {
		return name
	}
	return fallback
}
