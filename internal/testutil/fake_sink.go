package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/blocklayer/namadexer/internal/db"
	"github.com/blocklayer/namadexer/internal/model"
)

// FakeSink is an in-memory double for the persistence layer. It mirrors the
// real Sink's height-gated and singleton upserts and its insert-if-absent
// validator set, so tests can assert on overwrite behavior without a live
// Postgres. SaveBlock, SavePreCommits, SaveTransaction, and SaveMessage
// append on every call and keep duplicates.
type FakeSink struct {
	mu sync.Mutex

	Validators   []model.Validator
	validatorSet map[string]struct{}

	Blocks       []model.Block
	PreCommits   []model.PreCommit
	Transactions []model.Transaction
	Messages     []model.Message

	ValidatorInfos        map[string]model.ValidatorInfo
	ValidatorVotingPowers map[string]model.ValidatorVotingPower
	ValidatorCommissions  map[string]model.ValidatorCommission
	ValidatorStatuses     map[string]model.ValidatorStatus
	ValidatorDescriptions map[string]model.ValidatorDescription
	ConsensusKeys         map[string]model.ConsensusKey

	Proposals            map[int32]model.Proposal
	ProposalVotes         map[[2]string]model.ProposalVote
	ProposalTallyResults  map[int32]model.ProposalTallyResult

	AverageBlockTimeHour *model.AverageBlockTimeHour
	AverageBlockTimeDay  *model.AverageBlockTimeDay
}

// NewFakeSink builds an empty FakeSink with every map initialized.
func NewFakeSink() *FakeSink {
	return &FakeSink{
		validatorSet:          make(map[string]struct{}),
		ValidatorInfos:        make(map[string]model.ValidatorInfo),
		ValidatorVotingPowers: make(map[string]model.ValidatorVotingPower),
		ValidatorCommissions:  make(map[string]model.ValidatorCommission),
		ValidatorStatuses:     make(map[string]model.ValidatorStatus),
		ValidatorDescriptions: make(map[string]model.ValidatorDescription),
		ConsensusKeys:         make(map[string]model.ConsensusKey),
		Proposals:             make(map[int32]model.Proposal),
		ProposalVotes:         make(map[[2]string]model.ProposalVote),
		ProposalTallyResults:  make(map[int32]model.ProposalTallyResult),
	}
}

func (f *FakeSink) SaveValidatorSet(ctx context.Context, validators []model.Validator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range validators {
		if _, exists := f.validatorSet[v.ConsensusAddress]; exists {
			continue
		}
		f.validatorSet[v.ConsensusAddress] = struct{}{}
		f.Validators = append(f.Validators, v)
	}
	return nil
}

// BlockCount reports how many blocks have been saved so far, safe to call
// concurrently with an in-flight SaveBlock.
func (f *FakeSink) BlockCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Blocks)
}

func (f *FakeSink) SaveBlock(ctx context.Context, b model.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Blocks = append(f.Blocks, b)
	return nil
}

func (f *FakeSink) SavePreCommits(ctx context.Context, commits []model.PreCommit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PreCommits = append(f.PreCommits, commits...)
	return nil
}

func (f *FakeSink) SaveTransaction(ctx context.Context, tx model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Transactions = append(f.Transactions, tx)
	return nil
}

func (f *FakeSink) SaveMessage(ctx context.Context, m model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, m)
	return nil
}

func (f *FakeSink) SaveValidatorInfos(ctx context.Context, infos []model.ValidatorInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range infos {
		if cur, ok := f.ValidatorInfos[v.ValidatorAddress]; ok && cur.Height > v.Height {
			continue
		}
		f.ValidatorInfos[v.ValidatorAddress] = v
	}
	return nil
}

func (f *FakeSink) SaveValidatorVotingPowers(ctx context.Context, powers []model.ValidatorVotingPower) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range powers {
		if cur, ok := f.ValidatorVotingPowers[p.ValidatorAddress]; ok && cur.Height > p.Height {
			continue
		}
		f.ValidatorVotingPowers[p.ValidatorAddress] = p
	}
	return nil
}

func (f *FakeSink) SaveValidatorCommissions(ctx context.Context, commissions []model.ValidatorCommission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range commissions {
		if cur, ok := f.ValidatorCommissions[c.ValidatorAddress]; ok && cur.Height > c.Height {
			continue
		}
		f.ValidatorCommissions[c.ValidatorAddress] = c
	}
	return nil
}

func (f *FakeSink) SaveValidatorStatuses(ctx context.Context, statuses []model.ValidatorStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range statuses {
		if cur, ok := f.ValidatorStatuses[s.ValidatorAddress]; ok && cur.Height > s.Height {
			continue
		}
		f.ValidatorStatuses[s.ValidatorAddress] = s
	}
	return nil
}

func (f *FakeSink) SaveValidatorDescriptions(ctx context.Context, descs []model.ValidatorDescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range descs {
		if cur, ok := f.ValidatorDescriptions[d.ValidatorAddress]; ok && cur.Height > d.Height {
			continue
		}
		f.ValidatorDescriptions[d.ValidatorAddress] = d
	}
	return nil
}

func (f *FakeSink) SaveConsensusKey(ctx context.Context, key model.ConsensusKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.ConsensusKeys[key.ValidatorAddress]; ok && cur.Height > key.Height {
		return nil
	}
	f.ConsensusKeys[key.ValidatorAddress] = key
	return nil
}

func (f *FakeSink) SaveProposal(ctx context.Context, p model.Proposal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.Proposals[p.ID]; ok && cur.Height > p.Height {
		return nil
	}
	f.Proposals[p.ID] = p
	return nil
}

func (f *FakeSink) SaveProposalVote(ctx context.Context, v model.ProposalVote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{strconv.Itoa(int(v.ProposalID)), v.VoterAddress}
	if cur, ok := f.ProposalVotes[key]; ok && cur.Height > v.Height {
		return nil
	}
	f.ProposalVotes[key] = v
	return nil
}

func (f *FakeSink) SaveProposalTallyResult(ctx context.Context, t model.ProposalTallyResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.ProposalTallyResults[t.ProposalID]; ok && cur.Height > t.Height {
		return nil
	}
	f.ProposalTallyResults[t.ProposalID] = t
	return nil
}

func (f *FakeSink) LoadProposalsPendingTransition(ctx context.Context, epoch int64) (db.ProposalsPendingTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out db.ProposalsPendingTransition
	for _, p := range f.Proposals {
		if p.Status == model.ProposalStatusInit && p.VotingStartEpoch <= epoch {
			out.ReadyToOpen = append(out.ReadyToOpen, p)
		}
		if p.VotingEndEpoch <= epoch && p.Status != model.ProposalStatusPassed && p.Status != model.ProposalStatusRejected {
			out.ReadyToTally = append(out.ReadyToTally, p)
		}
	}
	return out, nil
}

func (f *FakeSink) ProposalsInVotingPeriod(ctx context.Context) ([]int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int32
	for _, p := range f.Proposals {
		if p.Status == model.ProposalStatusVotingPeriod {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (f *FakeSink) UpdateProposalStatus(ctx context.Context, id int32, status model.ProposalStatus, height int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Proposals[id]
	if !ok || p.Height > height {
		return nil
	}
	p.Status = status
	p.Height = height
	f.Proposals[id] = p
	return nil
}

func (f *FakeSink) SaveAverageBlockTimeHour(ctx context.Context, v model.AverageBlockTimeHour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AverageBlockTimeHour != nil && f.AverageBlockTimeHour.Height > v.Height {
		return nil
	}
	f.AverageBlockTimeHour = &v
	return nil
}

func (f *FakeSink) SaveAverageBlockTimeDay(ctx context.Context, v model.AverageBlockTimeDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AverageBlockTimeDay != nil && f.AverageBlockTimeDay.Height > v.Height {
		return nil
	}
	f.AverageBlockTimeDay = &v
	return nil
}

// LatestBlock returns the highest-height block saved so far.
func (f *FakeSink) LatestBlock(ctx context.Context) (model.Block, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Blocks) == 0 {
		return model.Block{}, false, nil
	}
	latest := f.Blocks[0]
	for _, b := range f.Blocks[1:] {
		if b.Height > latest.Height {
			latest = b
		}
	}
	return latest, true, nil
}

// BlockBefore returns the block with the latest timestamp at or before
// cutoff, or ok=false if none qualifies.
func (f *FakeSink) BlockBefore(ctx context.Context, cutoff time.Time) (model.Block, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best model.Block
	found := false
	for _, b := range f.Blocks {
		if b.Timestamp.After(cutoff) {
			continue
		}
		if !found || b.Timestamp.After(best.Timestamp) {
			best = b
			found = true
		}
	}
	return best, found, nil
}
