package models

import "gorm.io/gorm"

// Default community roles, seeded at startup
var defaultRoles = []Role{
	{Key: "cofounder", Label: "Co-founder"},
	{Key: "admin", Label: "Admin"},
	{Key: "mentor", Label: "Mentor"},
	{Key: "coach", Label: "Coach"},
	{Key: "mentorado", Label: "Mentorado"},
}

// SeedRoles creates the default roles if they are missing
func SeedRoles(db *gorm.DB) error {
	for _, role := range defaultRoles {
		if err := db.FirstOrCreate(&role, "key = ?", role.Key).Error; err != nil {
			return err
		}
	}
	return nil
}

// Starter skill catalog for the members directory
var defaultSkills = []Skill{
	{Name: "Python", Category: SkillBackend},
	{Name: "Go", Category: SkillBackend},
	{Name: "Django", Category: SkillBackend},
	{Name: "Node.js", Category: SkillBackend},
	{Name: "React", Category: SkillFrontend},
	{Name: "TypeScript", Category: SkillFrontend},
	{Name: "CSS", Category: SkillFrontend},
	{Name: "Docker", Category: SkillDevops},
	{Name: "Kubernetes", Category: SkillDevops},
	{Name: "Terraform", Category: SkillDevops},
	{Name: "SQL", Category: SkillSQL},
	{Name: "PostgreSQL", Category: SkillSQL},
	{Name: "Test Automation", Category: SkillQA},
	{Name: "Product Management", Category: SkillPM},
	{Name: "UX Design", Category: SkillDesign},
}

// SeedSkills creates the starter skills if they are missing
func SeedSkills(db *gorm.DB) error {
	for _, skill := range defaultSkills {
		if err := db.FirstOrCreate(&skill, "name = ?", skill.Name).Error; err != nil {
			return err
		}
	}
	return nil
}
