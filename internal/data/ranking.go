package data

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yixianOu/movie-rating/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const rankKeyPrefix = "rank:movies:"

type rankingRepo struct {
	data *Data
	log  *log.Helper
}

// NewRankingRepo creates the redis-backed leaderboards
func NewRankingRepo(data *Data, logger log.Logger) biz.RankingRepo {
	return &rankingRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func rankKey(board string) string {
	return rankKeyPrefix + board
}

// Refresh sets the movie's popular score to its rating count and its top score
// to its average. A movie without ratings leaves the top board.
func (r *rankingRepo) Refresh(ctx context.Context, movieID uint, stats *biz.RatingStats) error {
	if r.data.rdb == nil {
		return biz.ErrRankingsUnavailable
	}

	member := strconv.FormatUint(uint64(movieID), 10)
	_, err := r.data.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, rankKey(biz.BoardPopular), redis.Z{
			Score:  float64(stats.Count),
			Member: member,
		})
		if stats.Average != nil {
			pipe.ZAdd(ctx, rankKey(biz.BoardTop), redis.Z{
				Score:  *stats.Average,
				Member: member,
			})
		} else {
			pipe.ZRem(ctx, rankKey(biz.BoardTop), member)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update rankings: %w", err)
	}
	return nil
}

func (r *rankingRepo) Remove(ctx context.Context, movieID uint) error {
	if r.data.rdb == nil {
		return biz.ErrRankingsUnavailable
	}

	member := strconv.FormatUint(uint64(movieID), 10)
	_, err := r.data.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, rankKey(biz.BoardPopular), member)
		pipe.ZRem(ctx, rankKey(biz.BoardTop), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove rankings: %w", err)
	}
	return nil
}

func (r *rankingRepo) Top(ctx context.Context, board string, limit int) ([]*biz.RankedMovie, error) {
	if r.data.rdb == nil {
		return nil, biz.ErrRankingsUnavailable
	}

	entries, err := r.data.rdb.ZRevRangeWithScores(ctx, rankKey(board), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings: %w", err)
	}

	result := make([]*biz.RankedMovie, 0, len(entries))
	for _, e := range entries {
		member, ok := e.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			r.log.Warnf("skipping malformed leaderboard member %q in %s", member, board)
			continue
		}
		result = append(result, &biz.RankedMovie{MovieID: uint(id), Score: e.Score})
	}
	return result, nil
}
