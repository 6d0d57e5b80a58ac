package operator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/storage"
)

// WriterSource opens a transactional storage writer.
type WriterSource interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is one worker. Each action it takes off the queue runs in its own
// database transaction.
type Operator struct {
	id      int
	storage WriterSource
	queue   <-chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(id int, s WriterSource, queue <-chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		id:      id,
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run processes items until the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	logData := logging.NewLogData(o.logger)
	logData.AddData("worker", o.id)
	logData.AddData("action", actionName(item.action))

	// The caller may have given up while the item sat in the queue.
	if err := item.ctx.Err(); err != nil {
		logData.Log().WithError(err).Info("Operator.Action.Abandoned")
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		logData.Log().WithError(err).Error("Operator.Action.BeginFailed")
		return err
	}

	stopPerform := logData.AddTiming("performMs")
	err = item.action.Perform(item.ctx, writer)
	stopPerform()
	if err != nil {
		if rbErr := writer.Rollback(context.WithoutCancel(item.ctx)); rbErr != nil {
			logData.AddData("rollbackError", rbErr.Error())
		}
		logData.Log().WithError(err).Warn("Operator.Action.RolledBack")
		return err
	}

	stopCommit := logData.AddTiming("commitMs")
	err = writer.Commit(item.ctx)
	stopCommit()
	if err != nil {
		logData.Log().WithError(err).Error("Operator.Action.CommitFailed")
		return err
	}

	logData.Log().Info("Operator.Action.Complete")
	return nil
}

// actionName is the bare type name of an action, e.g. ImportTransactions.
func actionName(action actions.IAction) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", action), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
