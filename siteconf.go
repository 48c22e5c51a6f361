package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	engineGoldmark    = "goldmark"
	engineBlackfriday = "blackfriday"

	watchNotify = "notify"
	watchPoll   = "poll"
)

type SiteConf struct {
	Prod bool

	SiteTitle string
	Author    string
	BaseUrl   string
	Footer    string

	DataDir      string
	WebpageDir   string
	ImagesDir    string
	ImagesOutDir string

	Markdown      string
	WatchMode     string
	WatchInterval time.Duration
}

// readConf resolves the site configuration from the environment, a dotenv
// file if one exists at envFile, and defaults, in that order of precedence.
func readConf(prod bool, envFile string) (*SiteConf, error) {
	v := viper.New()

	v.SetDefault("title", "Title")
	v.SetDefault("author", "")
	v.SetDefault("base_url", "")
	v.SetDefault("footer", "")
	v.SetDefault("data_dir", "data")
	v.SetDefault("webpage_dir", "webpage")
	v.SetDefault("images_dir", "images")
	v.SetDefault("markdown", engineGoldmark)
	v.SetDefault("watch_mode", watchNotify)
	v.SetDefault("watch_interval", "200ms")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
			}
			log.Println("Using env file " + envFile)
		}
	}
	v.AutomaticEnv()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	conf := SiteConf{
		Prod:       prod,
		SiteTitle:  v.GetString("title"),
		Author:     v.GetString("author"),
		Footer:     v.GetString("footer"),
		DataDir:    normalizePath(v.GetString("data_dir"), cwd),
		WebpageDir: normalizePath(v.GetString("webpage_dir"), cwd),
		ImagesDir:  normalizePath(v.GetString("images_dir"), cwd),
		Markdown:   strings.ToLower(v.GetString("markdown")),
		WatchMode:  strings.ToLower(v.GetString("watch_mode")),
	}
	conf.ImagesOutDir = filepath.Join(conf.WebpageDir, "images")
	if conf.Author == "" {
		conf.Author = conf.SiteTitle
	}

	// BASE_URL is only honoured in production. Local builds link into the
	// webpage directory on disk.
	conf.BaseUrl = conf.WebpageDir
	if prod {
		if u := v.GetString("base_url"); u != "" {
			conf.BaseUrl = u
		}
	}
	conf.BaseUrl = strings.TrimSuffix(conf.BaseUrl, "/")

	switch conf.Markdown {
	case engineGoldmark, engineBlackfriday:
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", conf.Markdown)
	}

	switch conf.WatchMode {
	case watchNotify, watchPoll:
	default:
		return nil, fmt.Errorf("unknown watch mode %q", conf.WatchMode)
	}

	conf.WatchInterval, err = time.ParseDuration(v.GetString("watch_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid watch interval: %w", err)
	}
	if conf.WatchInterval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive, got %v", conf.WatchInterval)
	}

	log.Println("Using base_url: " + conf.BaseUrl)
	log.Println("Using title: " + conf.SiteTitle)
	log.Printf("Reading %v, writing %v, images from %v", conf.DataDir, conf.WebpageDir, conf.ImagesDir)

	return &conf, nil
}

func normalizePath(path, baseDir string) string {
	if !filepath.IsAbs(path) {
		return filepath.Join(baseDir, path)
	}
	return filepath.Clean(path)
}

// Called from templates.

func (c *SiteConf) CssPath() string {
	if c.Prod {
		return "./main.css"
	}
	return "../" + filepath.Base(c.WebpageDir) + "/main.css"
}

func (c *SiteConf) MobileCssPath() string {
	if c.Prod {
		return "./mobile.css"
	}
	return "../" + filepath.Base(c.WebpageDir) + "/mobile.css"
}
