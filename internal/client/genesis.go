package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocklayer/namadexer/internal/errs"
	"github.com/blocklayer/namadexer/internal/model"
)

// genesisDoc is the subset of a CometBFT genesis file namadexer needs to
// seed the initial validator set before backfill starts above height 0.
type genesisDoc struct {
	Validators []struct {
		Address string `json:"address"`
		PubKey  struct {
			Value string `json:"value"`
		} `json:"pub_key"`
		Power string `json:"power"`
	} `json:"validators"`
}

// GenesisValidators reads a genesis file and returns the validator set it
// declares together with each validator's voting power at height 0.
func GenesisValidators(path string) ([]model.Validator, []model.ValidatorVotingPower, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading genesis file %s: %v", errs.ErrNodeUnavailable, path, err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing genesis file %s: %v", errs.ErrNodeUnavailable, path, err)
	}

	validators := make([]model.Validator, 0, len(doc.Validators))
	powers := make([]model.ValidatorVotingPower, 0, len(doc.Validators))
	for _, v := range doc.Validators {
		validators = append(validators, model.Validator{
			ConsensusAddress: v.Address,
			ConsensusPubkey:  v.PubKey.Value,
		})

		var power int64
		_, _ = fmt.Sscanf(v.Power, "%d", &power)
		powers = append(powers, model.ValidatorVotingPower{
			ValidatorAddress: v.Address,
			VotingPower:      power,
			Height:           0,
		})
	}

	return validators, powers, nil
}
