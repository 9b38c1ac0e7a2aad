package validation

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "validation")
