package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/middleware"
	"github.com/sirupsen/logrus"
)

// staffEntry tags admin write logs with the token subject of whoever made the change.
// Routes opened without auth outside production carry no subject.
func staffEntry(c *gin.Context, log *logrus.Logger) *logrus.Entry {
	subject, err := middleware.GetUserID(c)
	if err != nil {
		return logrus.NewEntry(log)
	}
	return log.WithField("staff", subject)
}
