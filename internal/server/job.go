package server

import (
	"context"
	"time"

	"vmxsphere/internal/job"
	"vmxsphere/pkg/log"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type JobServer struct {
	log         *log.Logger
	conf        *viper.Viper
	scheduler   *gocron.Scheduler
	leaseJob    job.LeaseJob
	recoveryJob job.TaskRecoveryJob
}

func NewJobServer(
	log *log.Logger,
	conf *viper.Viper,
	leaseJob job.LeaseJob,
	recoveryJob job.TaskRecoveryJob,
) *JobServer {
	return &JobServer{
		log:         log,
		conf:        conf,
		leaseJob:    leaseJob,
		recoveryJob: recoveryJob,
	}
}
func (j *JobServer) Start(ctx context.Context) error {
	gocron.SetPanicHandler(func(jobName string, recoverData interface{}) {
		j.log.Error("Job Panic", zap.String("job", jobName), zap.Any("recover", recoverData))
	})

	// 先回收上次进程留下的 running 任务，再进入周期调度
	if err := j.recoveryJob.RecoverInterruptedTasks(ctx); err != nil {
		j.log.Error("recoveryJob.RecoverInterruptedTasks error", zap.Error(err))
	}

	// eg: crontab task
	j.scheduler = gocron.NewScheduler(time.UTC)
	// if you are in China, you will need to change the time zone as follows
	// j.scheduler = gocron.NewScheduler(time.FixedZone("PRC", 8*60*60))

	leaseCron := j.conf.GetString("lease.cron")
	if leaseCron == "" {
		leaseCron = "0 0 * * * *"
	}
	_, err := j.scheduler.CronWithSeconds(leaseCron).Do(func() {
		if err := j.leaseJob.CheckLeases(context.Background()); err != nil {
			j.log.Error("leaseJob.CheckLeases error", zap.Error(err))
		}
	})
	if err != nil {
		j.log.Error("LeaseJob CheckLeases error", zap.Error(err))
		return err
	}

	j.scheduler.StartBlocking()
	return nil
}
func (j *JobServer) Stop(ctx context.Context) error {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
	j.log.Info("JobServer stop...")
	return nil
}
