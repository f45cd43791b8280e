package repository

import (
	"context"
	"time"

	"vmxsphere/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskEventRepository 重装事件流水，落在 MongoDB 的 task_events 集合。
// 写入失败不应打断重装流程，调用方只记日志。
type TaskEventRepository interface {
	Insert(ctx context.Context, ev *model.TaskEvent) error
	ListByVmID(ctx context.Context, vmID int64, limit int64) ([]*model.TaskEvent, error)
	ListByRunID(ctx context.Context, runID string) ([]*model.TaskEvent, error)
	ListTerminal(ctx context.Context, limit int64) ([]*model.TaskEvent, error)
}

func NewTaskEventRepository(db *mongo.Database) TaskEventRepository {
	return &taskEventRepository{
		coll: db.Collection("task_events"),
	}
}

type taskEventRepository struct {
	coll *mongo.Collection
}

func (r *taskEventRepository) Insert(ctx context.Context, ev *model.TaskEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, ev)
	return err
}

func (r *taskEventRepository) ListByVmID(ctx context.Context, vmID int64, limit int64) ([]*model.TaskEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"vm_id": vmID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.TaskEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *taskEventRepository) ListByRunID(ctx context.Context, runID string) ([]*model.TaskEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"run_id": runID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.TaskEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListTerminal 只取 done / failed 两类收尾事件，用于面板的最近任务列表
func (r *taskEventRepository) ListTerminal(ctx context.Context, limit int64) ([]*model.TaskEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	filter := bson.M{"stage": bson.M{"$in": []string{model.TaskStageDone, model.TaskStageFailed}}}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.TaskEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
