package beacon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
	"github.com/prysmaticlabs/prysm-broadcast/network/httputil"
	"go.opencensus.io/trace"
)

const broadcastValidationQueryParam = "broadcast_validation"

var errInvalidBlockID = errors.New("invalid block id")

// PublishBlock instructs the beacon node to broadcast a newly signed beacon
// block to the beacon network before it is validated.
func (s *Server) PublishBlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "beacon.PublishBlock")
	defer span.End()
	s.publishBlock(ctx, w, r, validation.NotRequired)
}

// PublishBlockV2 instructs the beacon node to broadcast a newly signed beacon
// block once it passed the validation level requested by the
// broadcast_validation query parameter.
//
// The response is 200 when the block was broadcast and imported, 202 when it was
// broadcast but could not be imported, 400 when it failed broadcast validation
// and 500 on internal errors.
func (s *Server) PublishBlockV2(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "beacon.PublishBlockV2")
	defer span.End()

	level := s.DefaultBroadcastValidation
	if raw := r.URL.Query().Get(broadcastValidationQueryParam); raw != "" {
		var err error
		level, err = validation.ParseBroadcastValidationLevel(raw)
		if err != nil {
			httputil.HandleError(w, "Invalid broadcast_validation: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	span.AddAttributes(trace.StringAttribute("broadcastValidation", level.String()))
	s.publishBlock(ctx, w, r, level)
}

func (s *Server) publishBlock(ctx context.Context, w http.ResponseWriter, r *http.Request, level validation.BroadcastValidationLevel) {
	if r.Body == http.NoBody || r.Body == nil {
		httputil.HandleError(w, "No data submitted", http.StatusBadRequest)
		return
	}
	var req SignedBeaconBlock
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.HandleError(w, "Could not decode request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		httputil.HandleError(w, err.Error(), http.StatusBadRequest)
		return
	}
	signed, err := req.ToConsensus()
	if err != nil {
		httputil.HandleError(w, "Could not convert request block to consensus block: "+err.Error(), http.StatusBadRequest)
		return
	}
	blk, err := blocks.NewROBlock(signed)
	if err != nil {
		httputil.HandleError(w, "Invalid block: "+err.Error(), http.StatusBadRequest)
		return
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	importCtx := s.Ctx
	if importCtx == nil {
		importCtx = context.Background()
	}

	v := validation.NewBlockBroadcastValidator(ctx, blk, s.GossipValidator, level, true)
	importResult := s.receiveBlock(importCtx, blk, v)
	v.AttachToBlockImport(importResult)

	res, err := v.Result().Get(ctx)
	if err != nil {
		httputil.HandleError(w, "Could not validate block for broadcast: "+err.Error(), http.StatusInternalServerError)
		return
	}
	root := blk.Root()
	logger := log.WithField("slot", blk.Slot()).WithField("blockRoot", fmt.Sprintf("%#x", bytesutil.Trunc(root[:]))).
		WithField("broadcastValidation", level.String())
	if !res.IsSuccess() {
		logger.WithField("result", res.String()).Debug("Block failed broadcast validation")
		httputil.HandleError(w, "Block failed broadcast validation: "+res.String(), http.StatusBadRequest)
		return
	}
	if err := s.Broadcaster.BroadcastBlock(ctx, signed); err != nil {
		httputil.HandleError(w, "Could not broadcast block: "+err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Debug("Broadcast published block")

	imported, err := importResult.Get(ctx)
	if err != nil || !imported.IsSuccessful() {
		logger.WithError(err).WithField("importResult", imported.String()).Debug("Broadcast block was not imported")
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// receiveBlock imports the block once gossip validation has passed judgment on
// it. Blocks saved for future processing are not imported.
func (s *Server) receiveBlock(ctx context.Context, blk blocks.ROBlock, v *validation.BlockBroadcastValidator) *async.Future[*transition.BlockImportResult] {
	verdict := v.GossipValidated()
	if verdict == nil {
		return s.BlockReceiver.ReceiveBlock(ctx, blk, v)
	}
	f := async.NewFuture[*transition.BlockImportResult]()
	verdict.OnComplete(func(r validation.GossipResult, err error) {
		if err == nil && r == validation.SaveForFuture {
			f.Complete(transition.DeferredImport())
			return
		}
		s.BlockReceiver.ReceiveBlock(ctx, blk, v).OnComplete(func(res *transition.BlockImportResult, err error) {
			if err != nil {
				f.Fail(err)
				return
			}
			f.Complete(res)
		})
	})
	return f
}

// GetBlockV2 retrieves a block by id: a block root, a slot, "genesis" or "finalized".
// Slots are only resolved for finalized blocks.
func (s *Server) GetBlockV2(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "beacon.GetBlockV2")
	defer span.End()

	blockID := mux.Vars(r)["block_id"]
	if blockID == "" {
		httputil.HandleError(w, "block_id is required in URL params", http.StatusBadRequest)
		return
	}
	blk, finalized, err := s.blockByID(ctx, blockID)
	if errors.Is(err, errInvalidBlockID) {
		httputil.HandleError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		httputil.HandleError(w, "Could not get block: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if blk == nil {
		httputil.HandleError(w, "Could not find requested block", http.StatusNotFound)
		return
	}
	httputil.WriteJson(w, &GetBlockV2Response{
		Version:   "deneb",
		Finalized: finalized,
		Data:      SignedBeaconBlockFromConsensus(blk),
	})
}

func (s *Server) blockByID(ctx context.Context, id string) (*blocks.SignedBeaconBlock, bool, error) {
	db := s.BeaconDB
	switch strings.ToLower(id) {
	case "genesis":
		blk, err := db.EarliestFinalizedBlock(ctx)
		return blk, true, err
	case "finalized":
		cp := s.ChainInfoFetcher.FinalizedCheckpoint()
		blk, err := db.Block(ctx, cp.Root)
		return blk, true, err
	}
	if strings.HasPrefix(id, "0x") {
		dec, err := hexutil.Decode(id)
		if err != nil || len(dec) != 32 {
			return nil, false, errors.Wrapf(errInvalidBlockID, "root %q", id)
		}
		root := bytesutil.ToBytes32(dec)
		if blk, err := db.HotBlock(ctx, root); err != nil || blk != nil {
			return blk, false, err
		}
		blk, err := db.FinalizedBlock(ctx, root)
		return blk, true, err
	}
	slot, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, false, errors.Wrapf(errInvalidBlockID, "%q", id)
	}
	blk, err := db.FinalizedBlockAtSlot(ctx, primitives.Slot(slot))
	return blk, true, err
}
