package settings

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Media      MediaConfig      `mapstructure:"media"`
	CORS       CORSConfig       `mapstructure:"cors"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Events     EventsConfig     `mapstructure:"events"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Posts      PostsConfig      `mapstructure:"posts"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	Lang            string        `mapstructure:"lang"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // mongo | memory
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Transactions   bool          `mapstructure:"transactions"`
	ConnectRetries int           `mapstructure:"connect_retries"`
}

type CloudinaryConfig struct {
	URL string `mapstructure:"url"`
}

type MediaConfig struct {
	StagingDir      string `mapstructure:"staging_dir"`
	PostMaxBytes    int64  `mapstructure:"post_max_bytes"`
	ImageMaxBytes   int64  `mapstructure:"image_max_bytes"`
	PostsFolder     string `mapstructure:"posts_folder"`
	CommunityFolder string `mapstructure:"community_folder"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
	Origin  string   `mapstructure:"origin"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver"` // local | redis | none
	Size   int           `mapstructure:"size"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type EventsConfig struct {
	Workers int `mapstructure:"workers"`
}

type RateLimitConfig struct {
	Rate     float64 `mapstructure:"rate"`
	Capacity int64   `mapstructure:"capacity"`
}

type PostsConfig struct {
	RecentLimit int `mapstructure:"recent_limit"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.lang", "en")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.driver", "mongo")

	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "reddit")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("mongo.transactions", false)
	v.SetDefault("mongo.connect_retries", 3)

	v.SetDefault("cloudinary.url", "")

	v.SetDefault("media.staging_dir", "public")
	v.SetDefault("media.post_max_bytes", 30<<20)
	v.SetDefault("media.image_max_bytes", 10<<20)
	v.SetDefault("media.posts_folder", "reddit/posts")
	v.SetDefault("media.community_folder", "reddit/community")

	v.SetDefault("cors.origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.origin", "")

	v.SetDefault("jwt.secret", "")

	v.SetDefault("cache.driver", "local")
	v.SetDefault("cache.size", 128)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.timeout", 3*time.Second)

	v.SetDefault("nats.url", "")
	v.SetDefault("events.workers", 16)

	v.SetDefault("ratelimit.rate", 20)
	v.SetDefault("ratelimit.capacity", 40)

	v.SetDefault("posts.recent_limit", 20)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.path", "./logs/reddit.log")
	v.SetDefault("logger.max_size", 16)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.console", true)
}

// Load reads an optional .env file and then the process environment on top
// of the defaults. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "settings: load %s", envFile)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// names used by the existing deployments
	binds := map[string][]string{
		"server.port":    {"PORT"},
		"server.mode":    {"GIN_MODE"},
		"mongo.uri":      {"MONGO_URI", "MONGODB_URI"},
		"cloudinary.url": {"CLOUDINARY_URL"},
		"cors.origin":    {"CORS_ORIGIN"},
		"jwt.secret":     {"JWT_SECRET"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.Wrapf(err, "settings: bind %s", key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "settings: unmarshal")
	}
	if cfg.CORS.Origin != "" {
		cfg.CORS.Origins = append(cfg.CORS.Origins, cfg.CORS.Origin)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mongo":
		if c.Mongo.URI == "" {
			return errors.New("settings: mongo.uri (MONGO_URI) must be set")
		}
		if c.Cloudinary.URL == "" {
			return errors.New("settings: cloudinary.url (CLOUDINARY_URL) must be set")
		}
	case "memory":
	default:
		return errors.Errorf("settings: unknown store driver %q", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case "local", "redis", "none":
	default:
		return errors.Errorf("settings: unknown cache driver %q", c.Cache.Driver)
	}
	if len(c.CORS.Origins) == 0 {
		return errors.New("settings: cors.origins must name at least one origin")
	}
	if c.Media.PostMaxBytes <= 0 || c.Media.ImageMaxBytes <= 0 {
		return errors.New("settings: media size limits must be positive")
	}
	return nil
}

func (c *Config) Release() bool {
	return c.Server.Mode == "release"
}
