package entity

const MaxPostContentLen = 2000

type UserPost struct {
	Base

	UserID  string `gorm:"index"`
	User    User   `gorm:"foreignKey:UserID"`
	Content string `gorm:"type:text"`
}
