package dto

// ExportQuery selects the export format
type ExportQuery struct {
	Format string `form:"format,default=xlsx" binding:"omitempty,oneof=xlsx csv"`
}
