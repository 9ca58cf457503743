/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wayfindhq/wayfind/model"
)

var tierNames = []interface{}{
	string(model.TierMicro), string(model.TierSmall),
	string(model.TierMedium), string(model.TierEnterprise),
}

var businessTypes = []interface{}{
	string(model.BusinessTypeFree), string(model.BusinessTypeRenewables),
	string(model.BusinessTypeRetail), string(model.BusinessTypeWholesale),
	string(model.BusinessTypeIndustry),
}

var businessSizes = []interface{}{
	string(model.BusinessSizeSolo), string(model.BusinessSizeSmall),
	string(model.BusinessSizeMedium), string(model.BusinessSizeLarge),
	string(model.BusinessSizeEnterprise),
}

func (p *BusinessProfileReq) ValidateBusinessProfile() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.BusinessType, validation.In(businessTypes...)),
		validation.Field(&p.BusinessSize, validation.In(businessSizes...)),
		validation.Field(&p.EmployeeCount, validation.Min(0)),
		validation.Field(&p.LocationCount, validation.Min(0)),
		validation.Field(&p.MonthlyRevenue, validation.Min(float64(0))),
		validation.Field(&p.MonthlyTransactions, validation.Min(0)),
	)
}

func (p *BusinessProfileReq) ToProfile() model.BusinessProfile {
	return model.BusinessProfile{
		BusinessType:        model.BusinessType(p.BusinessType),
		BusinessSize:        model.BusinessSize(p.BusinessSize),
		EmployeeCount:       p.EmployeeCount,
		LocationCount:       p.LocationCount,
		MonthlyRevenue:      p.MonthlyRevenue,
		MonthlyTransactions: p.MonthlyTransactions,
	}
}

func (r *RecommendReq) ValidateRecommend() error {
	return r.Profile.ValidateBusinessProfile()
}

func (s *SubmitStepReq) ValidateSubmitStep() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.UserID, validation.Required),
		validation.Field(&s.Step, validation.Required),
		validation.Field(&s.Data, validation.Required),
	)
}

func (s *SubmitStepReq) ToStepID() model.StepID {
	return model.StepID(s.Step)
}

func (s *SubmitStepReq) ToCompleted() []model.StepID {
	completed := make([]model.StepID, 0, len(s.CompletedSteps))
	for _, step := range s.CompletedSteps {
		completed = append(completed, model.StepID(step))
	}
	return completed
}

func (c *CompleteOnboardingReq) ValidateCompleteOnboarding() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.Tier, validation.Required, validation.In(tierNames...)),
	)
}

func (c *ChangeTierReq) ValidateChangeTier() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.FromTier, validation.Required, validation.In(tierNames...)),
		validation.Field(&c.ToTier, validation.Required, validation.In(tierNames...)),
	)
}
