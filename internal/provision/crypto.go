package provision

import (
	"errors"
	"fmt"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/random"
)

const passwordLength = 32

var ErrInvalidKey = errors.New("invalid db_key")

// Crypter 使用 security.db_key_secret 加解密实例数据库密码
type Crypter struct {
	key []byte
}

func NewCrypter(secret string) (*Crypter, error) {
	if secret == "" {
		return nil, errors.New("security.db_key_secret is empty")
	}
	// sha256 十六进制串的前 32 字节作为 AES-256 密钥
	return &Crypter{key: []byte(cryptor.Sha256(secret))[:32]}, nil
}

// NewPassword 生成随机数据库密码，只含字母
func NewPassword() string {
	return random.RandString(passwordLength)
}

func (c *Crypter) Encrypt(plain string) string {
	return cryptor.Base64StdEncode(string(cryptor.AesCbcEncrypt([]byte(plain), c.key)))
}

func (c *Crypter) Decrypt(dbKey string) (plain string, err error) {
	raw := cryptor.Base64StdDecode(dbKey)
	if raw == "" {
		return "", ErrInvalidKey
	}
	defer func() {
		if r := recover(); r != nil {
			plain, err = "", fmt.Errorf("%w: %v", ErrInvalidKey, r)
		}
	}()
	return string(cryptor.AesCbcDecrypt([]byte(raw), c.key)), nil
}
