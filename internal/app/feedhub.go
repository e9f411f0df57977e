package app

import (
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/pkg/events"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

func (axm *AxiomVault) start() {
	go axm.listenWaitReportBlock()
	go axm.listenWaitReportLogs()
}

func (axm *AxiomVault) listenWaitReportBlock() {
	blockCh := make(chan events.ExecutedEvent)
	blockSub := axm.BlockExecutor.SubscribeBlockEvent(blockCh)
	defer blockSub.Unsubscribe()

	for {
		select {
		case <-axm.Ctx.Done():
			return
		case ev := <-blockCh:
			axm.reportBlock(ev)
		}
	}
}

func (axm *AxiomVault) reportBlock(ev events.ExecutedEvent) {
	axm.logger.WithFields(logrus.Fields{
		"height": ev.Block.Height,
		"hash":   ev.Block.Hash().String(),
		"count":  len(ev.Receipts),
		"failed": ev.FailedCount(),
	}).Info("Report block")
}

func (axm *AxiomVault) listenWaitReportLogs() {
	logsCh := make(chan []*types.EvmLog)
	logsSub := axm.BlockExecutor.SubscribeLogsEvent(logsCh)
	defer logsSub.Unsubscribe()

	for {
		select {
		case <-axm.Ctx.Done():
			return
		case logs := <-logsCh:
			for _, log := range logs {
				if len(log.Topics) == 0 {
					continue
				}
				axm.logger.WithFields(logrus.Fields{
					"address": log.Address.String(),
					"topic":   log.Topics[0].String(),
				}).Debug("Contract event")
			}
		}
	}
}
