// Package database, transaction yardımcıları.
//
// WithTx, birden fazla DB operasyonunun atomik (all-or-nothing) çalışmasını sağlar.
// Kayıt mutasyonu ve audit log satırı aynı transaction'da yazılır:
// ikisinden biri başarısız olursa hiçbiri kalıcı olmaz.
//
// Kullanım:
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sqlx.Tx) error {
//	    repo := assetRepo.WithTx(tx)
//	    if err := repo.Update(ctx, asset); err != nil {
//	        return err // → ROLLBACK
//	    }
//	    return auditRepo.WithTx(tx).Create(ctx, entry) // nil → COMMIT
//	})
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxQuerier, hem *sqlx.DB hem *sqlx.Tx tarafından karşılanan interface.
//
// Repository'ler bu interface'i alır: normal operasyonlarda *sqlx.DB,
// transaction içinde *sqlx.Tx geçilir. Rebind ile "?" placeholder'ları
// driver'ın formatına çevrilir.
type TxQuerier interface {
	sqlx.ExtContext
}

// WithTx, verilen fonksiyonu bir transaction içinde çalıştırır.
//
// fn nil dönerse COMMIT, error dönerse ROLLBACK.
// fn panic atarsa ROLLBACK yapılır ve panic tekrar fırlatılır;
// aksi halde transaction açık kalır ve bağlantı kilitlenir.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
