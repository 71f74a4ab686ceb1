package models

import "time"

// Project is a portfolio entry owned by a user.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"size:2000;not null" json:"description"`
	GithubURL   string `gorm:"size:512" json:"githubUrl"`
	WebsiteURL  string `gorm:"size:512" json:"websiteUrl"`

	OwnerID uint `gorm:"index;not null" json:"ownerId"`
	Owner   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Images []ProjectImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectImage is one uploaded image of a project. PublicID is the handle
// needed to delete the object from external storage.
type ProjectImage struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProjectID uint   `gorm:"index;not null" json:"-"`
	URL       string `gorm:"size:512;not null" json:"url"`
	PublicID  string `gorm:"size:255;not null" json:"publicId"`
}
