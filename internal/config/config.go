// Package config builds the relay configuration from defaults, an optional
// JSON file, command-line flags and environment variables, applied in that
// order so that later sources win.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// UploadFolder is where blobs are written when no bucket is configured.
	UploadFolder string

	// FileTTL is how long a code stays redeemable.
	FileTTL time.Duration

	// MaxUploadSize caps the request body of an upload, in bytes.
	MaxUploadSize int64

	AllowedExtensions []string
	EnforceExtensions bool

	// SweepInterval runs the expiry sweep in the background. Zero keeps the
	// sweep request driven only.
	SweepInterval time.Duration

	// TrustedSubnet is the CIDR allowed to call internal routes.
	TrustedSubnet string

	// GRPCPort enables the gRPC health server when positive.
	GRPCPort int

	LogLevel string

	// EnablePprof indicates whether to enable pprof for performance profiling.
	EnablePprof bool

	// EnableHTTPS serves TLS with certificates from Let's Encrypt.
	EnableHTTPS bool
	TLSHosts    []string

	// OTLPEndpoint enables tracing when set (host:port of an OTLP/HTTP collector).
	OTLPEndpoint string

	// Minio selects a bucket instead of the upload folder when Endpoint is set.
	Minio storage.MinioOptions

	// Config is the JSON file the other values were read from, if any.
	Config string
}

// fileOptions is the layout of the JSON config file. Durations accept Go
// duration strings or plain seconds, sizes accept values like "16MiB".
type fileOptions struct {
	ServerAddress     string   `json:"server_address"`
	UploadFolder      string   `json:"upload_folder"`
	FileTTL           string   `json:"file_ttl"`
	MaxUploadSize     string   `json:"max_upload_size"`
	AllowedExtensions []string `json:"allowed_extensions"`
	EnforceExtensions *bool    `json:"enforce_extensions"`
	SweepInterval     string   `json:"sweep_interval"`
	TrustedSubnet     string   `json:"trusted_subnet"`
	GRPCPort          int      `json:"grpc_port"`
	LogLevel          string   `json:"log_level"`
	EnablePprof       *bool    `json:"enable_pprof"`
	EnableHTTPS       *bool    `json:"enable_https"`
	TLSHosts          []string `json:"tls_hosts"`
	OTLPEndpoint      string   `json:"otlp_endpoint"`
	MinioEndpoint     string   `json:"minio_endpoint"`
	MinioAccessKey    string   `json:"minio_access_key"`
	MinioSecretKey    string   `json:"minio_secret_key"`
	MinioBucket       string   `json:"minio_bucket"`
	MinioUseSSL       *bool    `json:"minio_use_ssl"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		Port:              "localhost:8080",
		UploadFolder:      "uploads",
		FileTTL:           600 * time.Second,
		MaxUploadSize:     16 << 20,
		AllowedExtensions: []string{"pdf", "png", "jpg", "zip"},
		EnforceExtensions: true,
		LogLevel:          "info",
		Minio: storage.MinioOptions{
			Bucket: "relay",
		},
	}
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs is Parse for an explicit argument list.
func ParseArgs(args []string) (*Options, error) {
	options := Default()

	if path := configPath(args); path != "" {
		if err := options.loadFile(path); err != nil {
			return nil, err
		}
		options.Config = path
	}

	if err := options.parseFlags(args); err != nil {
		return nil, err
	}

	if err := options.applyEnv(); err != nil {
		return nil, err
	}

	if err := options.validate(); err != nil {
		return nil, err
	}

	return options, nil
}

func (o *Options) parseFlags(args []string) error {
	fs := flag.NewFlagSet("relay", flag.ContinueOnError)

	fs.StringVar(&o.Port, "a", o.Port, "run on ip:port server")
	fs.StringVar(&o.UploadFolder, "u", o.UploadFolder, "upload folder")
	fs.Func("ttl", "file lifetime, seconds or duration (default 10m)", func(s string) (err error) {
		o.FileTTL, err = parseDuration(s)
		return err
	})
	fs.Func("max-size", "maximum upload size, e.g. 16MiB (default 16MiB)", func(s string) (err error) {
		o.MaxUploadSize, err = parseSize(s)
		return err
	})
	fs.Func("ext", "comma separated allowed extensions (default pdf,png,jpg,zip)", func(s string) error {
		o.AllowedExtensions = parseList(s)
		return nil
	})
	fs.BoolVar(&o.EnforceExtensions, "enforce-ext", o.EnforceExtensions, "reject uploads outside the allowed extensions")
	fs.Func("sweep-interval", "background sweep interval, 0 disables", func(s string) (err error) {
		o.SweepInterval, err = parseDuration(s)
		return err
	})
	fs.StringVar(&o.TrustedSubnet, "t", o.TrustedSubnet, "trusted subnet in CIDR notation")
	fs.IntVar(&o.GRPCPort, "g", o.GRPCPort, "gRPC health server port, 0 disables")
	fs.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	fs.BoolVar(&o.EnablePprof, "p", o.EnablePprof, "enable pprof")
	fs.BoolVar(&o.EnableHTTPS, "s", o.EnableHTTPS, "enable https")
	fs.Func("tls-host", "comma separated host names for the certificate", func(s string) error {
		o.TLSHosts = parseList(s)
		return nil
	})
	fs.StringVar(&o.OTLPEndpoint, "otlp", o.OTLPEndpoint, "OTLP/HTTP collector host:port")
	fs.StringVar(&o.Minio.Endpoint, "minio-endpoint", o.Minio.Endpoint, "MinIO endpoint, enables bucket storage")
	fs.StringVar(&o.Minio.AccessKey, "minio-access-key", o.Minio.AccessKey, "MinIO access key")
	fs.StringVar(&o.Minio.SecretKey, "minio-secret-key", o.Minio.SecretKey, "MinIO secret key")
	fs.StringVar(&o.Minio.Bucket, "minio-bucket", o.Minio.Bucket, "MinIO bucket")
	fs.BoolVar(&o.Minio.UseSSL, "minio-ssl", o.Minio.UseSSL, "use TLS for MinIO")
	fs.StringVar(&o.Config, "c", o.Config, "path to JSON config file")

	return fs.Parse(args)
}

func (o *Options) applyEnv() error {
	var errs []error

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := parseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	setString("SERVER_ADDRESS", &o.Port)
	setString("UPLOAD_FOLDER", &o.UploadFolder)
	setDuration("FILE_TTL", &o.FileTTL)
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		size, err := parseSize(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_SIZE: %w", err))
		} else {
			o.MaxUploadSize = size
		}
	}
	if v := os.Getenv("ALLOWED_EXTENSIONS"); v != "" {
		o.AllowedExtensions = parseList(v)
	}
	setBool("ENFORCE_EXTENSIONS", &o.EnforceExtensions)
	setDuration("SWEEP_INTERVAL", &o.SweepInterval)
	setString("TRUSTED_SUBNET", &o.TrustedSubnet)
	if v := os.Getenv("GRPC_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GRPC_PORT: %w", err))
		} else {
			o.GRPCPort = port
		}
	}
	setString("LOG_LEVEL", &o.LogLevel)
	setBool("ENABLE_HTTPS", &o.EnableHTTPS)
	if v := os.Getenv("TLS_HOSTS"); v != "" {
		o.TLSHosts = parseList(v)
	}
	setString("OTLP_ENDPOINT", &o.OTLPEndpoint)
	setString("MINIO_ENDPOINT", &o.Minio.Endpoint)
	setString("MINIO_ACCESS_KEY", &o.Minio.AccessKey)
	setString("MINIO_SECRET_KEY", &o.Minio.SecretKey)
	setString("MINIO_BUCKET", &o.Minio.Bucket)
	setBool("MINIO_USE_SSL", &o.Minio.UseSSL)

	return errors.Join(errs...)
}

func (o *Options) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}
	setBool := func(src *bool, dst *bool) {
		if src != nil {
			*dst = *src
		}
	}

	setString(f.ServerAddress, &o.Port)
	setString(f.UploadFolder, &o.UploadFolder)
	if f.FileTTL != "" {
		if o.FileTTL, err = parseDuration(f.FileTTL); err != nil {
			return fmt.Errorf("config file_ttl: %w", err)
		}
	}
	if f.MaxUploadSize != "" {
		if o.MaxUploadSize, err = parseSize(f.MaxUploadSize); err != nil {
			return fmt.Errorf("config max_upload_size: %w", err)
		}
	}
	if f.AllowedExtensions != nil {
		o.AllowedExtensions = f.AllowedExtensions
	}
	setBool(f.EnforceExtensions, &o.EnforceExtensions)
	if f.SweepInterval != "" {
		if o.SweepInterval, err = parseDuration(f.SweepInterval); err != nil {
			return fmt.Errorf("config sweep_interval: %w", err)
		}
	}
	setString(f.TrustedSubnet, &o.TrustedSubnet)
	if f.GRPCPort != 0 {
		o.GRPCPort = f.GRPCPort
	}
	setString(f.LogLevel, &o.LogLevel)
	setBool(f.EnablePprof, &o.EnablePprof)
	setBool(f.EnableHTTPS, &o.EnableHTTPS)
	if f.TLSHosts != nil {
		o.TLSHosts = f.TLSHosts
	}
	setString(f.OTLPEndpoint, &o.OTLPEndpoint)
	setString(f.MinioEndpoint, &o.Minio.Endpoint)
	setString(f.MinioAccessKey, &o.Minio.AccessKey)
	setString(f.MinioSecretKey, &o.Minio.SecretKey)
	setString(f.MinioBucket, &o.Minio.Bucket)
	setBool(f.MinioUseSSL, &o.Minio.UseSSL)

	return nil
}

func (o *Options) validate() error {
	if o.FileTTL <= 0 {
		return fmt.Errorf("file ttl must be positive, got %s", o.FileTTL)
	}
	if o.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", o.MaxUploadSize)
	}
	if o.SweepInterval < 0 {
		return fmt.Errorf("sweep interval must not be negative, got %s", o.SweepInterval)
	}
	if o.GRPCPort < 0 || o.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port %d", o.GRPCPort)
	}
	if o.TrustedSubnet != "" {
		if _, _, err := net.ParseCIDR(o.TrustedSubnet); err != nil {
			return fmt.Errorf("invalid trusted subnet: %w", err)
		}
	}
	if o.EnableHTTPS && len(o.TLSHosts) == 0 {
		return errors.New("https needs at least one host name (-tls-host)")
	}
	if o.UploadFolder == "" && o.Minio.Endpoint == "" {
		return errors.New("either an upload folder or a MinIO endpoint is required")
	}

	return nil
}

// configPath finds the config file from -c or CONFIG before the flags are
// parsed, so that the file only provides defaults for them.
func configPath(args []string) string {
	path := os.Getenv("CONFIG")

	for i := 0; i < len(args); i++ {
		arg := strings.TrimPrefix(args[i], "-")
		arg = strings.TrimPrefix(arg, "-")

		switch {
		case arg == "c" && i+1 < len(args):
			path = args[i+1]
			i++
		case strings.HasPrefix(arg, "c="):
			path = strings.TrimPrefix(arg, "c=")
		}
	}

	return path
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func parseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > 1<<40 {
		return 0, fmt.Errorf("size %s is too large", s)
	}
	return int64(n), nil
}

// parseList splits a comma separated list and drops empty items and leading
// dots, so ".pdf, PNG" becomes [pdf PNG].
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimPrefix(strings.TrimSpace(item), ".")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
