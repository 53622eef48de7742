package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const MinCost = 10

var ErrMismatch = errors.New("password mismatch")

// Hash 以 bcrypt 雜湊密碼；cost 低於 MinCost 時使用 MinCost
func Hash(plain string, cost int) (string, error) {
	if cost < MinCost {
		cost = MinCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare 比對失敗回傳 ErrMismatch，其他錯誤（如 hash 格式錯誤）原樣回傳
func Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
