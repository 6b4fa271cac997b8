package utils

import (
	"fmt"
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// mediaClient talks to the media storage service that hosts lesson videos
// and chapter assets.
func mediaClient() *resty.Client {
	return resty.New().
		SetBaseURL(config.AppConfig.MediaServiceURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
}

func purgeMedia(kind string, id uint) {
	resp, err := mediaClient().R().
		SetHeader("Content-Type", "application/json").
		Delete(fmt.Sprintf("/media/%s/%d", kind, id))
	if err != nil {
		log.Printf("Error purging %s %d media: %v", kind, id, err)
		return
	}
	if resp.IsError() {
		log.Printf("Media service rejected purge of %s %d: %s", kind, id, resp.Status())
	}
}

// PurgeCourseMedia drops every stored asset of a deleted course. Best effort;
// the course rows are already gone when this runs.
func PurgeCourseMedia(courseID uint) {
	purgeMedia("course", courseID)
}

// PurgeChapterMedia drops the stored assets of a deleted chapter.
func PurgeChapterMedia(chapterID uint) {
	purgeMedia("chapter", chapterID)
}

// PurgeLessonMedia drops the stored video of a deleted lesson.
func PurgeLessonMedia(lessonID uint) {
	purgeMedia("lesson", lessonID)
}
