package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/hooplytics/traderadar/internal/biz"
	dm "github.com/hooplytics/traderadar/pkg/model"
)

type evaluationRepo struct {
	data *Data
	log  *log.Helper
}

func NewEvaluationRepo(data *Data, logger log.Logger) biz.EvaluationRepo {
	return &evaluationRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *evaluationRepo) ListEvaluations(ctx context.Context, page, pageSize int) ([]*biz.EvaluationRecord, int, error) {
	offset := (page - 1) * pageSize

	rows, err := r.data.db.QueryContext(ctx,
		`SELECT id, proposal, fairness_label, fairness_score, verdict, win_impact,
			similar_trades, analysis, suggestions, created_at
		 FROM evaluations
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*biz.EvaluationRecord
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.data.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *evaluationRepo) GetEvaluation(ctx context.Context, id int64) (*biz.EvaluationRecord, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT id, proposal, fairness_label, fairness_score, verdict, win_impact,
			similar_trades, analysis, suggestions, created_at
		 FROM evaluations WHERE id = $1`,
		id)

	rec, err := scanEvaluation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("EVALUATION_NOT_FOUND", "evaluation not found")
		}
		return nil, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*biz.EvaluationRecord, error) {
	var (
		rec           biz.EvaluationRecord
		proposalJS    []byte
		similarJS     []byte
		analysis      sql.NullString
		suggestionsJS []byte
		createdAt     time.Time
	)
	if err := row.Scan(&rec.ID, &proposalJS, &rec.FairnessLabel, &rec.FairnessScore,
		&rec.Verdict, &rec.WinImpact, &similarJS, &analysis, &suggestionsJS, &createdAt); err != nil {
		return nil, err
	}

	rec.Proposal = &dm.TradeProposal{}
	if err := json.Unmarshal(proposalJS, rec.Proposal); err != nil {
		return nil, fmt.Errorf("decode proposal for evaluation %d: %w", rec.ID, err)
	}
	if len(similarJS) > 0 {
		if err := json.Unmarshal(similarJS, &rec.SimilarTrades); err != nil {
			return nil, fmt.Errorf("decode similar trades for evaluation %d: %w", rec.ID, err)
		}
	}
	if analysis.Valid {
		rec.Analysis = analysis.String
	}
	if len(suggestionsJS) > 0 {
		if err := json.Unmarshal(suggestionsJS, &rec.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions for evaluation %d: %w", rec.ID, err)
		}
	}
	rec.CreatedAt = createdAt.Format("2006-01-02 15:04:05")

	return &rec, nil
}
