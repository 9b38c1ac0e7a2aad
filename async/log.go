package async

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "async")
