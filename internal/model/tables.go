package model

// Tables lists the models AutoMigrate manages, parents before children.
func Tables() []any {
	return []any{&User{}, &Category{}, &Product{}, &AuditLog{}}
}
