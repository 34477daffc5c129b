package database

import "embed"

// MigrationsFS содержит SQL миграции схемы, вшитые в бинарник,
// чтобы сервисы могли применять их на старте без внешних файлов.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsPath - путь к миграциям внутри MigrationsFS.
const MigrationsPath = "migrations"
