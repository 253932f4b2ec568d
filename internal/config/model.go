// internal/config/model.go
//
// Typed configuration model for leadcore.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `LEADCORE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so the rest of the app
// never sees Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the DSN for the remote inquiry store.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  When `Password` is set it is spliced
// into the template's single `%s` verb; a `vault:` prefix on the password
// defers to the Vault client at load time, keeping credentials out of flat
// files and git history.
type Database struct {
	DSN      string `koanf:"dsn" validate:"required"`
	Password string `koanf:"password"`
}

//
// Webhook section
//

// Webhook seeds the relay configuration on first boot.  Values saved from
// the admin dashboard persist in the local fallback store and take
// precedence over these defaults on later boots.
type Webhook struct {
	URL         string `koanf:"url"`
	NotifyEmail string `koanf:"notify_email" validate:"required,email"`
}

//
// Intake section
//

// Intake configures the submission surface.  Services is the closed catalog
// of offered categories; the form UI and the admin filter both draw from it.
type Intake struct {
	Services []string `koanf:"services" validate:"required,min=1"`
}

//
// Geo section
//

// Geo points at an optional MaxMind GeoLite2-City database.  When the path
// is empty, request enrichment skips geolocation and records only the UA.
type Geo struct {
	CityDB string `koanf:"city_db"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or LEADCORE_ROOT override) so later code can
// build absolute file paths, e.g. the fallback store under `<root>/data`.
type Paths struct {
	Root string // LEADCORE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Webhook  Webhook  `koanf:"webhook"`
	Intake   Intake   `koanf:"intake"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
