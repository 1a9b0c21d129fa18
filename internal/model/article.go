package model

// Article is one row of the uploaded catalog. The catalog is
// category-authoritative for scans: if a scanned sap_article exists here, its
// category wins over any manual or session category.
//
// Uploads are full-replace: the whole table is cleared and reinserted, so an
// Article is never partially updated outside an upload.
type Article struct {
	BaseModel
	SAPArticle  string `gorm:"type:varchar(100);not null;uniqueIndex:idx_articles_sap_category;index" json:"sap_article" validate:"required"`
	Category    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_articles_sap_category" json:"category" validate:"required"`
	PartNumber  string `gorm:"type:varchar(100)" json:"part_number"`
	Description string `gorm:"type:text" json:"description"`
}

func (Article) TableName() string {
	return "articles"
}
