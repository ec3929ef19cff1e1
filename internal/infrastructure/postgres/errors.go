package postgres

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

const (
	codeUniqueViolation = "23505"
	codeInvalidTextRepr = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

// isMalformedID はUUIDとして解釈できないIDが渡されたかを返す
// 存在しないIDと同じ扱いにする
func isMalformedID(err error) bool {
	return pqCode(err) == codeInvalidTextRepr
}

// conn はトランザクションがあればそれを、なければDBを返す
func conn(db *sqlx.DB, tx transaction.Tx) sqlx.ExtContext {
	if t := UnwrapTx(tx); t != nil {
		return t
	}
	return db
}
