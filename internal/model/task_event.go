package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskEvent 重装任务的事件流水，写入 MongoDB（集合 task_events）。
// 关系库里的任务三元组只保留最新状态，完整过程在这里可查。
type TaskEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RunID     string             `bson:"run_id" json:"run_id"` // 一次重装的唯一标识
	VmID      int64              `bson:"vm_id" json:"vm_id"`
	VmName    string             `bson:"vm_name" json:"vm_name"`
	Stage     string             `bson:"stage" json:"stage"`
	Progress  int                `bson:"progress" json:"progress"`
	Level     string             `bson:"level" json:"level"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// 重装阶段常量，同时用作事件的 stage 字段
const (
	TaskStageInit            = "init"
	TaskStageStopping        = "stopping"
	TaskStageRestoring       = "restoring"
	TaskStageNetworking      = "networking"
	TaskStageBooting         = "booting"
	TaskStageWaitingForGuest = "waiting_for_guest"
	TaskStageBootstrapping   = "bootstrapping"
	TaskStageFinalizing      = "finalizing"
	TaskStageDone            = "done"
	TaskStageFailed          = "failed"
)

// 事件级别常量
const (
	TaskEventLevelInfo    = "info"
	TaskEventLevelWarning = "warning"
	TaskEventLevelError   = "error"
)
