package model

// File represents an uploaded resume. Content holds the raw bytes when the
// file lives in the database; StorageObjectName points at the bucket object
// when cloud storage is configured, in which case Content stays empty.
type File struct {
	ID                int     `gorm:"primaryKey" json:"id"`
	Content           []byte  `json:"-"`
	Extension         string  `json:"extension"`
	StorageObjectName *string `json:"-"`
}
