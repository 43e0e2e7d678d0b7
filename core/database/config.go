package database

// Config holds configuration for the database connection.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite it is the file path (or ":memory:").
	Name string `mapstructure:"name" default:"gyrinx"`
	// Driver is the database driver (mysql, postgres, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
