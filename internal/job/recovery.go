package job

import (
	"context"

	"vmxsphere/internal/repository"

	"go.uber.org/zap"
)

// TaskRecoveryJob 进程崩溃或重启会留下卡在 running 的任务记录，
// 启动时统一打回 idle，把中断原因留在 task_message 里。
type TaskRecoveryJob interface {
	RecoverInterruptedTasks(ctx context.Context) error
}

func NewTaskRecoveryJob(
	job *Job,
	vmRepo repository.VMRepository,
) TaskRecoveryJob {
	return &taskRecoveryJob{
		Job:    job,
		vmRepo: vmRepo,
	}
}

type taskRecoveryJob struct {
	*Job
	vmRepo repository.VMRepository
}

func (j *taskRecoveryJob) RecoverInterruptedTasks(ctx context.Context) error {
	n, err := j.vmRepo.ResetRunningTasks(ctx, "reinstall interrupted by service restart")
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Warn("recovered interrupted reinstall tasks", zap.Int64("count", n))
	}
	return nil
}
