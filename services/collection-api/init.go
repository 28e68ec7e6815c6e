package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/hikuken/submission-project/pkg/apihelpers"
	"github.com/hikuken/submission-project/pkg/collection"
	"github.com/hikuken/submission-project/pkg/db"
	"github.com/hikuken/submission-project/pkg/filestore"
	"github.com/hikuken/submission-project/pkg/utils"

	collectionDB "github.com/hikuken/submission-project/pkg/db/collection"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	ENV_GIN_DEBUG_MODE             = "GIN_DEBUG_MODE"
	ENV_COLLECTION_API_LISTEN_PORT = "COLLECTION_API_LISTEN_PORT"
	ENV_CORS_ALLOW_ORIGINS         = "CORS_ALLOW_ORIGINS"

	ENV_ORGANIZER_JWT_SIGN_KEY = "ORGANIZER_JWT_SIGN_KEY"

	ENV_REQUIRE_MUTUAL_TLS     = "REQUIRE_MUTUAL_TLS"
	ENV_MUTUAL_TLS_SERVER_CERT = "MUTUAL_TLS_SERVER_CERT"
	ENV_MUTUAL_TLS_SERVER_KEY  = "MUTUAL_TLS_SERVER_KEY"
	ENV_MUTUAL_TLS_CA_CERT     = "MUTUAL_TLS_CA_CERT"

	ENV_COLLECTION_DB_CONNECTION_STR    = "COLLECTION_DB_CONNECTION_STR"
	ENV_COLLECTION_DB_USERNAME          = "COLLECTION_DB_USERNAME"
	ENV_COLLECTION_DB_PASSWORD          = "COLLECTION_DB_PASSWORD"
	ENV_COLLECTION_DB_CONNECTION_PREFIX = "COLLECTION_DB_CONNECTION_PREFIX"
	ENV_COLLECTION_DB_NAME_PREFIX       = "COLLECTION_DB_NAME_PREFIX"
	ENV_COLLECTION_DB_TIMEOUT           = "COLLECTION_DB_TIMEOUT"
	ENV_COLLECTION_DB_IDLE_CONN_TIMEOUT = "COLLECTION_DB_IDLE_CONN_TIMEOUT"
	ENV_COLLECTION_DB_MAX_POOL_SIZE     = "COLLECTION_DB_MAX_POOL_SIZE"

	ENV_FILESTORE_ENDPOINT        = "FILESTORE_ENDPOINT"
	ENV_FILESTORE_ACCESS_KEY      = "FILESTORE_ACCESS_KEY"
	ENV_FILESTORE_SECRET_KEY      = "FILESTORE_SECRET_KEY"
	ENV_FILESTORE_BUCKET          = "FILESTORE_BUCKET"
	ENV_FILESTORE_USE_SSL         = "FILESTORE_USE_SSL"
	ENV_FILESTORE_UPLOAD_EXPIRY   = "FILESTORE_UPLOAD_EXPIRY"
	ENV_FILESTORE_DOWNLOAD_EXPIRY = "FILESTORE_DOWNLOAD_EXPIRY"

	ENV_LOG_TO_FILE     = "LOG_TO_FILE"
	ENV_LOG_FILENAME    = "LOG_FILENAME"
	ENV_LOG_MAX_SIZE    = "LOG_MAX_SIZE"
	ENV_LOG_MAX_AGE     = "LOG_MAX_AGE"
	ENV_LOG_MAX_BACKUPS = "LOG_MAX_BACKUPS"
	ENV_LOG_LEVEL       = "LOG_LEVEL"
	ENV_LOG_INCLUDE_SRC = "LOG_INCLUDE_SRC"
)

var (
	collectionDBService *collectionDB.CollectionDBService
	objectStore         filestore.ObjectStore
	collectionService   *collection.Service
)

type Config struct {
	// Gin configs
	GinDebugMode bool     `json:"gin_debug_mode" yaml:"gin_debug_mode"`
	AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
	Port         string   `json:"port" yaml:"port"`

	// JWT configs
	OrganizerJWTSignKey string `json:"organizer_jwt_sign_key" yaml:"organizer_jwt_sign_key"`

	// Mutual TLS configs
	UseMTLS          bool                        `json:"use_mtls" yaml:"use_mtls"`
	CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`

	CollectionDBConfig     db.DBConfig           `json:"-" yaml:"-"`
	CollectionDBConfigYaml db.DBConfigYaml       `json:"collection_db_config" yaml:"collection_db_config"`
	FilestoreConfig        filestore.MinioConfig `json:"filestore_config" yaml:"filestore_config"`
}

func init() {
	utils.ReadConfigFromEnvAndInitLogger(
		ENV_LOG_LEVEL,
		ENV_LOG_INCLUDE_SRC,
		ENV_LOG_TO_FILE,
		ENV_LOG_FILENAME,
		ENV_LOG_MAX_SIZE,
		ENV_LOG_MAX_AGE,
		ENV_LOG_MAX_BACKUPS,
	)

	conf = initConfig()
	if !conf.GinDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	initDBs()

	initFilestore()

	collectionService = collection.NewService(collectionDBService, objectStore)
}

func initDBs() {
	var err error
	collectionDBService, err = collectionDB.NewCollectionDBService(conf.CollectionDBConfig)
	if err != nil {
		slog.Error("Error connecting to Collection DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initFilestore() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	objectStore, err = filestore.NewMinioStore(ctx, conf.FilestoreConfig)
	if err != nil {
		slog.Error("Error connecting to filestore", slog.String("error", err.Error()))
		panic(err)
	}
}

func initConfig() Config {
	conf := Config{}

	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		fmt.Println("Error reading config file: " + err.Error())
		conf = Config{}
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		fmt.Println("Error reading config file: " + err.Error())
		conf = Config{}
	}

	conf.GinDebugMode = os.Getenv(ENV_GIN_DEBUG_MODE) == "true"
	conf.Port = os.Getenv(ENV_COLLECTION_API_LISTEN_PORT)
	conf.AllowOrigins = strings.Split(os.Getenv(ENV_CORS_ALLOW_ORIGINS), ",")

	// JWT configs
	conf.OrganizerJWTSignKey = os.Getenv(ENV_ORGANIZER_JWT_SIGN_KEY)
	if conf.OrganizerJWTSignKey == "" {
		slog.Error("Organizer JWT sign key not set - configure ORGANIZER_JWT_SIGN_KEY env variable.")
		panic("Organizer JWT sign key not set")
	}

	// Mutual TLS configs
	conf.UseMTLS = os.Getenv(ENV_REQUIRE_MUTUAL_TLS) == "true"
	conf.CertificatePaths = apihelpers.CertificatePaths{
		ServerCertPath: os.Getenv(ENV_MUTUAL_TLS_SERVER_CERT),
		ServerKeyPath:  os.Getenv(ENV_MUTUAL_TLS_SERVER_KEY),
		CACertPath:     os.Getenv(ENV_MUTUAL_TLS_CA_CERT),
	}

	// Collection db configs, env wins over the config file
	if os.Getenv(ENV_COLLECTION_DB_CONNECTION_STR) != "" {
		conf.CollectionDBConfig = db.ReadDBConfigFromEnv(
			"collection DB",
			ENV_COLLECTION_DB_CONNECTION_STR,
			ENV_COLLECTION_DB_USERNAME,
			ENV_COLLECTION_DB_PASSWORD,
			ENV_COLLECTION_DB_CONNECTION_PREFIX,
			ENV_COLLECTION_DB_TIMEOUT,
			ENV_COLLECTION_DB_IDLE_CONN_TIMEOUT,
			ENV_COLLECTION_DB_MAX_POOL_SIZE,
			ENV_COLLECTION_DB_NAME_PREFIX,
		)
	} else {
		conf.CollectionDBConfig = conf.CollectionDBConfigYaml.GetDBConfig()
	}

	// Filestore configs
	conf.FilestoreConfig = readFilestoreConfig()

	return conf
}

func readFilestoreConfig() filestore.MinioConfig {
	fsConfig := filestore.MinioConfig{
		Endpoint:  os.Getenv(ENV_FILESTORE_ENDPOINT),
		AccessKey: os.Getenv(ENV_FILESTORE_ACCESS_KEY),
		SecretKey: os.Getenv(ENV_FILESTORE_SECRET_KEY),
		Bucket:    os.Getenv(ENV_FILESTORE_BUCKET),
		UseSSL:    os.Getenv(ENV_FILESTORE_USE_SSL) == "true",
	}
	if fsConfig.Endpoint == "" || fsConfig.Bucket == "" {
		slog.Error("Filestore config incomplete - configure FILESTORE_ENDPOINT and FILESTORE_BUCKET env variables.")
		panic("Filestore config incomplete")
	}

	if expiresIn := os.Getenv(ENV_FILESTORE_UPLOAD_EXPIRY); expiresIn != "" {
		d, err := utils.ParseDurationString(expiresIn)
		if err != nil {
			slog.Error("error during initConfig", slog.String("error", err.Error()), slog.String(ENV_FILESTORE_UPLOAD_EXPIRY, expiresIn))
			panic(err)
		}
		fsConfig.UploadExpiry = d
	}
	if expiresIn := os.Getenv(ENV_FILESTORE_DOWNLOAD_EXPIRY); expiresIn != "" {
		d, err := utils.ParseDurationString(expiresIn)
		if err != nil {
			slog.Error("error during initConfig", slog.String("error", err.Error()), slog.String(ENV_FILESTORE_DOWNLOAD_EXPIRY, expiresIn))
			panic(err)
		}
		fsConfig.DownloadExpiry = d
	}
	return fsConfig
}
