package provision

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"atlas/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	identRe    = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z0-9]{8,64}$`)
)

// Database 实例独立的 MySQL 库和账号
type Database interface {
	Create(ctx context.Context, sid, dbKey string) error
	Drop(ctx context.Context, sid string) error
	Password(dbKey string) (string, error)
	Host() string
	Port() int
}

type mysqlDatabase struct {
	db       *gorm.DB
	crypter  *Crypter
	userHost string
	host     string
	port     int
	logger   *log.Logger
}

func NewDatabase(conf *viper.Viper, crypter *Crypter, l *log.Logger) (Database, error) {
	db, err := gorm.Open(mysql.Open(conf.GetString("data.instance_db.dsn")), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open instance database server: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return NewDatabaseWithDB(db, crypter, conf.GetString("data.instance_db.host"),
		conf.GetInt("data.instance_db.port"), conf.GetString("data.instance_db.user_host"), l), nil
}

func NewDatabaseWithDB(db *gorm.DB, crypter *Crypter, host string, port int, userHost string, l *log.Logger) Database {
	if userHost == "" {
		userHost = "%"
	}
	if port == 0 {
		port = 3306
	}
	return &mysqlDatabase{db: db, crypter: crypter, userHost: userHost, host: host, port: port, logger: l}
}

func NewCrypterFromConfig(conf *viper.Viper) (*Crypter, error) {
	return NewCrypter(conf.GetString("security.db_key_secret"))
}

func (d *mysqlDatabase) Host() string { return d.host }
func (d *mysqlDatabase) Port() int    { return d.port }

func (d *mysqlDatabase) Password(dbKey string) (string, error) {
	return d.crypter.Decrypt(dbKey)
}

// Create 可重复执行：库和账号已存在时只重新授权
func (d *mysqlDatabase) Create(ctx context.Context, sid, dbKey string) error {
	if !identRe.MatchString(sid) {
		return fmt.Errorf("invalid database name %q", sid)
	}
	password, err := d.crypter.Decrypt(dbKey)
	if err != nil {
		return err
	}
	if !passwordRe.MatchString(password) {
		return fmt.Errorf("%w: unexpected password format", ErrInvalidKey)
	}
	stmts := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", sid),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%s' IDENTIFIED BY '%s'", sid, d.userHost, password),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON `%s`.* TO '%s'@'%s'", sid, sid, d.userHost),
		"FLUSH PRIVILEGES",
	}
	for _, stmt := range stmts {
		if err := d.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("create database %s: %w", sid, err)
		}
	}
	d.logger.WithContext(ctx).Info("instance database created", zap.String("sid", sid))
	return nil
}

func (d *mysqlDatabase) Drop(ctx context.Context, sid string) error {
	if !identRe.MatchString(sid) {
		return fmt.Errorf("invalid database name %q", sid)
	}
	stmts := []string{
		fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", sid),
		fmt.Sprintf("DROP USER IF EXISTS '%s'@'%s'", sid, d.userHost),
	}
	for _, stmt := range stmts {
		if err := d.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("drop database %s: %w", sid, err)
		}
	}
	d.logger.WithContext(ctx).Info("instance database dropped", zap.String("sid", sid))
	return nil
}
