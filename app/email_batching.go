package app

import (
	"net/http"
	"time"

	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/jasonlvhit/gocron"
)

const (
	GetUsersLimit = 100
)

type EmailBatchingJob struct {
	server   *Server
	interval *string
}

func NewEmailBatchingJob(s *Server, interval *string) *EmailBatchingJob {
	return &EmailBatchingJob{
		server:   s,
		interval: interval,
	}
}

func (job *EmailBatchingJob) useCron() bool {
	if job.interval == nil {
		return true
	}

	return false
}

func (job *EmailBatchingJob) scheduleJobs() *model.AppError {
	if !*job.server.Config().EmailBatchJobSettings.Enable {
		return model.NewAppError("InitEmailBatching", "email_batching.app_error", nil, "", http.StatusInternalServerError)
	}

	if job.useCron() {
		if *job.server.Config().EmailBatchJobSettings.ThreeHourly {
			job.scheduleThreeHourlyEmailBatchJobs()
		}

		if *job.server.Config().EmailBatchJobSettings.Daily {
			job.scheduleDailyEmailBatchJobs()
		}

		if *job.server.Config().EmailBatchJobSettings.Weekly {
			job.scheduleWeeklyEmailBatchJobs()
		}
	} else {
		// e.g. AWS ECS Scheduled Task
		job.emailBatchJob(*job.interval)
	}

	return nil
}

// emailBatchJob walks all verified users and mails them a digest for
// every community of theirs that published posts during the interval.
func (job *EmailBatchingJob) emailBatchJob(interval string) {
	var past int64
	switch interval {
	case model.EMAIL_BATCH_INTERVAL_THREE_HOUR:
		past = model.GetMillisForTime(time.Now().Add(-3 * time.Hour))
	case model.EMAIL_BATCH_INTERVAL_DAY:
		past = model.GetMillisForTime(time.Now().Add(-24 * time.Hour))
	case model.EMAIL_BATCH_INTERVAL_WEEK:
		past = model.GetMillisForTime(time.Now().Add(-24 * 7 * time.Hour))
	default:
		return
	}

	page := 0

	for {
		options := &model.GetUsersOptions{
			Page:    page,
			PerPage: GetUsersLimit,
		}
		users, err := job.server.Store.User().GetUsersByDates(options)
		if err != nil || len(users) <= 0 {
			if !job.useCron() {
				mlog.Info("self stopping job server...")

				job.server.Shutdown()
			}

			break
		}

		page++
		mlog.Info("email batch job processed a page of users", mlog.Int("page", page))

		for _, user := range users {
			if user.DeleteAt != 0 || user.Email == "" || !user.EmailVerified {
				continue
			}

			members, err := job.server.Store.Community().GetCommunitiesForUser(user.Id)
			if err != nil {
				continue
			}

			for _, member := range members {
				if member.DeleteAt != 0 {
					continue
				}

				postsOptions := &model.GetPostsOptions{
					CommunityId: member.CommunityId,
					FromDate:    past,
					Page:        0,
					PerPage:     1,
				}

				_, count, err := job.server.Store.Post().GetPosts(postsOptions, true)
				if err != nil || count <= 0 {
					continue
				}

				community, err := job.server.Store.Community().Get(member.CommunityId)
				if err != nil || community.DeleteAt != 0 {
					continue
				}

				email := user.Email
				name := community.Name
				job.server.Go(func() {
					if err := SendPostsDigestEmail(email, name, *job.server.Config().ServiceSettings.SiteURL, count, job.server.Config()); err != nil {
						mlog.Error("Failed to send posts digest email", mlog.Err(err))
					}
				})
			}
		}
	}
}

func (job *EmailBatchingJob) scheduleThreeHourlyEmailBatchJobs() {
	gocron.Every(1).Day().At("00:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("03:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("06:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("09:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("12:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("15:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("18:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
	gocron.Every(1).Day().At("21:00").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_THREE_HOUR)
}

func (job *EmailBatchingJob) scheduleDailyEmailBatchJobs() {
	gocron.Every(1).Day().At("07:30").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_DAY)
}

func (job *EmailBatchingJob) scheduleWeeklyEmailBatchJobs() {
	gocron.Every(1).Monday().At("10:30").DoSafely(job.emailBatchJob, model.EMAIL_BATCH_INTERVAL_WEEK)
}

func (job *EmailBatchingJob) startJobs() {
	if job.useCron() {
		// Start all the pending jobs
		<-gocron.Start()
	}
}

func (job *EmailBatchingJob) StopJobs() {
	if job.useCron() {
		gocron.Clear()
	}
}
