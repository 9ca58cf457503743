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

type BusinessProfileReq struct {
	BusinessType        string  `json:"business_type"`
	BusinessSize        string  `json:"business_size"`
	EmployeeCount       int     `json:"employee_count"`
	LocationCount       int     `json:"location_count"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	MonthlyTransactions int     `json:"monthly_transactions"`
}

type SubmitStepReq struct {
	UserID         string                 `json:"user_id"`
	Step           string                 `json:"step"`
	CompletedSteps []string               `json:"completed_steps"`
	Data           map[string]interface{} `json:"data"`
}

type RecommendReq struct {
	Profile BusinessProfileReq `json:"profile"`
}

type CompleteOnboardingReq struct {
	UserID  string             `json:"user_id"`
	Tier    string             `json:"tier"`
	Profile BusinessProfileReq `json:"profile"`
}

type ChangeTierReq struct {
	UserID   string             `json:"user_id"`
	FromTier string             `json:"from_tier"`
	ToTier   string             `json:"to_tier"`
	Profile  BusinessProfileReq `json:"profile"`
}

type ResumeRecoveryReq struct {
	Data map[string]interface{} `json:"data"`
}
