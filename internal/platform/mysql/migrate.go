package mysql

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

// Reset drops the given tables (children first) and recreates them.
func Reset(db *gorm.DB, models ...any) error {
	reversed := make([]any, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		reversed = append(reversed, models[i])
	}
	if err := db.Migrator().DropTable(reversed...); err != nil {
		return fmt.Errorf("drop tables failed: %w", err)
	}
	return Migrate(db, models...)
}

var schemaName = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// EnsureDatabase creates the schema on the server addressed by serverDSN when it is missing.
func EnsureDatabase(ctx context.Context, serverDSN, name string) error {
	if !schemaName.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}

	db, err := New(ctx, Options{DSN: serverDSN, MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer Close(db)

	stmt := "CREATE DATABASE IF NOT EXISTS `" + name + "` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create database %s failed: %w", name, err)
	}
	return nil
}

func HasDatabase(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var names []string
	if err := db.WithContext(ctx).Raw("SHOW DATABASES LIKE ?", name).Scan(&names).Error; err != nil {
		return false, fmt.Errorf("show databases failed: %w", err)
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}
