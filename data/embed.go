package data

import (
	_ "embed"
)

// InitdbMariaDBSettings holds server settings applied as root to MariaDB/MySQL test containers
//
//go:embed initdb/mariadb/001-settings.sql
var InitdbMariaDBSettings string
